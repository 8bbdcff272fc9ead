package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStatistics returns the aggregate dashboard numbers.
func GetStatistics(c *gin.Context) {
	stats, err := queryService().GetStatistics()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":              stats.Total,
		"by_status":          stats.ByStatus,
		"by_authority":       stats.ByAuthority,
		"avg_days_ignored":   stats.AvgDaysIgnored,
		"new_this_week":      stats.NewThisWeek,
		"resolved_this_week": stats.ResolvedThisWeek,
		"critical_count":     stats.CriticalCount,
	})
}

// GetSilenceScores returns every authority's silence score, worst first.
func GetSilenceScores(c *gin.Context) {
	board, err := silenceService().Scoreboard()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authorities": board,
		"count":       len(board),
	})
}
