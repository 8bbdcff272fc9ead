package controllers

import (
	"net/http"
	"strconv"

	"blindspot-api/config"
	"blindspot-api/middleware"
	"blindspot-api/models"

	"github.com/gin-gonic/gin"
)

type TransitionRequest struct {
	Notes string `json:"notes"`
}

// ListAuthorities returns all authorities with their categories.
func ListAuthorities(c *gin.Context) {
	var authorities []models.Authority
	if err := config.DB.Preload("Categories").Order("name").Find(&authorities).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"authorities": authorities})
}

// ListCategories returns every category with its owning authority.
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Preload("Authority").Order("authority_id, name").Find(&categories).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// transitionHandler runs one lifecycle operation. Authorization and the
// state precondition are checked inside the service.
func transitionHandler(c *gin.Context, apply func(issueID, actorID uint, notes string) (*models.Issue, error)) {
	issueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req TransitionRequest
	_ = c.ShouldBindJSON(&req) // notes are optional

	issue, err := apply(uint(issueID), actorID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"issue":   issue,
	})
}

// AcknowledgeIssue moves an ignored issue to acknowledged.
func AcknowledgeIssue(c *gin.Context) {
	transitionHandler(c, lifecycleService().Acknowledge)
}

// StartProgressIssue moves an acknowledged issue to in_progress.
func StartProgressIssue(c *gin.Context) {
	transitionHandler(c, lifecycleService().StartProgress)
}

// ResolveIssue moves an in_progress issue to resolved.
func ResolveIssue(c *gin.Context) {
	transitionHandler(c, lifecycleService().Resolve)
}

// authorityLink loads the caller's active authority link, or writes the
// appropriate error response and returns nil.
func authorityLink(c *gin.Context) *models.AuthorityUser {
	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return nil
	}

	var link models.AuthorityUser
	if err := config.DB.Preload("Authority").Where("user_id = ?", actorID).First(&link).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized: account is not linked to an authority"})
		return nil
	}
	if !link.IsActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized: authority account is inactive"})
		return nil
	}

	return &link
}

// ListAuthorityIssues returns the caller's authority's issues, optionally
// filtered by status.
func ListAuthorityIssues(c *gin.Context) {
	link := authorityLink(c)
	if link == nil {
		return
	}

	q := config.DB.
		Joins("JOIN categories ON categories.category_id = issues.category_id").
		Where("categories.authority_id = ?", link.AuthorityID).
		Preload("Category")
	if status := c.Query("status"); status != "" {
		q = q.Where("issues.status = ?", status)
	}

	var issues []models.Issue
	if err := q.Order("issues.reported_at DESC").Find(&issues).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authority": link.Authority.Name,
		"issues":    issues,
		"count":     len(issues),
	})
}

// ListNotificationLogs returns the caller's authority's notification
// attempts, newest first. Read-only.
func ListNotificationLogs(c *gin.Context) {
	link := authorityLink(c)
	if link == nil {
		return
	}

	var logs []models.NotificationLog
	if err := config.DB.
		Where("authority_id = ?", link.AuthorityID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": logs,
		"count":         len(logs),
	})
}
