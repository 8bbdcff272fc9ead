package controllers

import (
	"errors"
	"log"
	"net/http"

	"blindspot-api/config"
	"blindspot-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var notifier *services.Notifier

// InitServices wires the shared notifier after config.InitDB has run.
func InitServices(n *services.Notifier) { notifier = n }

func getDB() *gorm.DB { return config.DB }

func issueService() *services.IssueService {
	return services.NewIssueService(getDB(), notifier)
}

func ledgerService() *services.LedgerService { return services.NewLedgerService(getDB()) }

func lifecycleService() *services.LifecycleService { return services.NewLifecycleService(getDB()) }

func queryService() *services.QueryService { return services.NewQueryService(getDB()) }

func silenceService() *services.SilenceService { return services.NewSilenceService(getDB()) }

// respondServiceError maps the service error taxonomy to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		stateErr      *services.StateError
		authErr       *services.AuthorizationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": notFoundErr.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": authErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": stateErr.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
	}
}
