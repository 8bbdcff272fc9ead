package routes

import (
	"blindspot-api/controllers"
	"blindspot-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/register", controllers.Register)
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Blindspot API is running",
				})
			})

			// Map data (anonymous browsing is allowed)
			public.GET("/authorities", controllers.ListAuthorities)
			public.GET("/categories", controllers.ListCategories)
			public.GET("/issues", controllers.ListIssues)
			public.GET("/issues/nearby", controllers.NearbyIssues)
			public.GET("/issues/radius", controllers.NearbyRadius)
			public.GET("/issues/unaddressed", controllers.UnaddressedIssues)
			public.GET("/issues/:id", controllers.GetIssue)
			public.GET("/issues/:id/comments", controllers.ListComments)

			// Dashboard
			public.GET("/statistics", controllers.GetStatistics)
			public.GET("/authorities/silence-scores", controllers.GetSilenceScores)
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)

			// Citizen actions
			protected.POST("/issues", middleware.ReportRateLimiter(10), controllers.CreateIssue)
			protected.POST("/issues/images", controllers.UploadIssueImage)
			protected.POST("/issues/:id/confirm", controllers.ConfirmIssue)
			protected.POST("/issues/:id/comments", controllers.AddComment)

			// Authority dashboard (authorization enforced per operation)
			authority := protected.Group("/authority")
			{
				authority.GET("/issues", controllers.ListAuthorityIssues)
				authority.GET("/notifications", controllers.ListNotificationLogs)
				authority.POST("/issues/:id/acknowledge", controllers.AcknowledgeIssue)
				authority.POST("/issues/:id/start-progress", controllers.StartProgressIssue)
				authority.POST("/issues/:id/resolve", controllers.ResolveIssue)
			}
		}
	}

	// 404 handler
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Route not found"})
	})
}
