package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"blindspot-api/middleware"
	"blindspot-api/models"
	"blindspot-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateIssueRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id" binding:"required"`
	// Pointers so 0 (equator / prime meridian) binds as present.
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	Address   string   `json:"address"`
	Severity  int      `json:"severity"`
	ImagePath *string  `json:"image_path,omitempty"`
}

type ConfirmRequest struct {
	Comment string `json:"comment"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// issueFeature renders one issue as a GeoJSON feature with its derived
// properties, mirroring what the map frontend consumes.
func issueFeature(issue *models.Issue, confirmations int64, now time.Time) gin.H {
	urgency := services.ClassifyIssue(issue, now)

	return gin.H{
		"type": "Feature",
		"geometry": gin.H{
			"type":        "Point",
			"coordinates": []float64{issue.Longitude, issue.Latitude},
		},
		"properties": gin.H{
			"id":                 issue.IssueID,
			"title":              issue.Title,
			"description":        issue.Description,
			"category":           issue.Category.Name,
			"authority":          issue.Category.Authority.Name,
			"authority_color":    issue.Category.Authority.Color,
			"severity":           issue.Severity,
			"status":             issue.Status,
			"status_display":     models.StatusDisplay(issue.Status),
			"address":            issue.Address,
			"reported_at":        issue.ReportedAt.Format(time.RFC3339),
			"days_since_report":  urgency.DaysSinceReport,
			"days_ignored":       urgency.DaysIgnored,
			"urgency_level":      urgency.Level,
			"urgency_color":      urgency.Color,
			"escalation_label":   urgency.Escalation,
			"confirmation_count": confirmations,
			"icon":               issue.Category.Icon,
		},
	}
}

// ListIssues returns all issues as a GeoJSON FeatureCollection, optionally
// filtered by authority, category or status.
func ListIssues(c *gin.Context) {
	var filter services.IssueFilter

	if v := c.Query("authority"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid authority id"})
			return
		}
		filter.AuthorityID = uint(id)
	}
	if v := c.Query("category"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		filter.CategoryID = uint(id)
	}
	if v := c.Query("status"); v != "" {
		filter.Status = models.IssueStatus(v)
	}

	svc := issueService()
	issues, err := svc.List(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ids := make([]uint, len(issues))
	for i := range issues {
		ids[i] = issues[i].IssueID
	}
	counts, err := svc.ConfirmationCounts(ids)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	features := make([]gin.H, 0, len(issues))
	for i := range issues {
		features = append(features, issueFeature(&issues[i], counts[issues[i].IssueID], now))
	}

	c.JSON(http.StatusOK, gin.H{
		"type":     "FeatureCollection",
		"features": features,
	})
}

// GetIssue returns one issue with derived metrics, live confirmation count
// and latest notification status.
func GetIssue(c *gin.Context) {
	issueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	viewerID, _ := middleware.CurrentUserID(c)

	detail, err := issueService().Get(uint(issueID), viewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreateIssue files a new report and triggers the authority notification.
// The response never waits on (or reflects) the email outcome.
func CreateIssue(c *gin.Context) {
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := middleware.CurrentUserID(c)
	var reporter *uint
	if userID != 0 {
		reporter = &userID
	}

	issue, err := issueService().Create(services.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Address:     req.Address,
		Severity:    req.Severity,
		ReportedBy:  reporter,
		ImagePath:   req.ImagePath,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Issue reported successfully",
		"issue_id": issue.IssueID,
	})
}

// UploadIssueImage stores a photo and returns the path to reference from a
// report. Files are named with a fresh uuid to avoid collisions.
func UploadIssueImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}

	filename := uuid.New().String() + filepath.Ext(file.Filename)
	dst := filepath.Join(uploadPath, "issues", filename)

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare upload directory"})
		return
	}
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"image_path": filepath.ToSlash(filepath.Join("issues", filename)),
	})
}

// ConfirmIssue records a community confirmation. Confirming twice is a
// no-op that reports "already confirmed".
func ConfirmIssue(c *gin.Context) {
	issueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req ConfirmRequest
	_ = c.ShouldBindJSON(&req) // comment is optional

	result, err := ledgerService().Confirm(uint(issueID), userID, req.Comment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if !result.Created {
		c.JSON(http.StatusOK, gin.H{
			"success":            false,
			"message":            "You have already confirmed this issue",
			"confirmation_count": result.ConfirmationCount,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "Issue confirmed",
		"confirmation_count": result.ConfirmationCount,
	})
}

// AddComment appends a remark to an issue.
func AddComment(c *gin.Context) {
	issueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := ledgerService().AddComment(uint(issueID), userID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"comment": comment,
	})
}

// ListComments returns the newest comments on an issue, default cap 10.
func ListComments(c *gin.Context) {
	issueID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid issue id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	comments, err := ledgerService().ListComments(uint(issueID), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments": comments,
		"count":    len(comments),
	})
}

// NearbyIssues returns issues inside a coordinate-delta bounding box.
func NearbyIssues(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
		return
	}
	delta, _ := strconv.ParseFloat(c.DefaultQuery("radius", "0.01"), 64)

	issues, err := queryService().NearbyBox(lat, lng, delta)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	svc := issueService()
	ids := make([]uint, len(issues))
	for i := range issues {
		ids[i] = issues[i].IssueID
	}
	counts, err := svc.ConfirmationCounts(ids)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	features := make([]gin.H, 0, len(issues))
	for i := range issues {
		features = append(features, issueFeature(&issues[i], counts[issues[i].IssueID], now))
	}

	c.JSON(http.StatusOK, gin.H{
		"type":     "FeatureCollection",
		"features": features,
		"count":    len(features),
	})
}

// NearbyRadius returns unresolved issues within an exact great-circle
// radius (km), closest first.
func NearbyRadius(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coordinates"})
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius_km", "1"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid radius"})
		return
	}

	hits, err := queryService().NearbyRadius(lat, lng, radius)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	now := time.Now()
	results := make([]gin.H, 0, len(hits))
	for i := range hits {
		urgency := services.ClassifyIssue(&hits[i].Issue, now)
		results = append(results, gin.H{
			"id":            hits[i].Issue.IssueID,
			"title":         hits[i].Issue.Title,
			"category":      hits[i].Issue.Category.Name,
			"authority":     hits[i].Issue.Category.Authority.Name,
			"status":        hits[i].Issue.Status,
			"severity":      hits[i].Issue.Severity,
			"distance_km":   hits[i].DistanceKm,
			"urgency_level": urgency.Level,
			"days_ignored":  urgency.DaysIgnored,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"issues": results,
		"count":  len(results),
	})
}

// UnaddressedIssues returns the top ignored issues ranked by days ignored.
func UnaddressedIssues(c *gin.Context) {
	ranked, err := queryService().Unaddressed()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	results := make([]gin.H, 0, len(ranked))
	for _, row := range ranked {
		results = append(results, gin.H{
			"rank":         row.Rank,
			"id":           row.Issue.IssueID,
			"title":        row.Issue.Title,
			"category":     row.Issue.Category.Name,
			"authority":    row.Issue.Category.Authority.Name,
			"severity":     row.Issue.Severity,
			"days_ignored": row.DaysIgnored,
			"address":      row.Issue.Address,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"issues": results,
		"count":  len(results),
	})
}
