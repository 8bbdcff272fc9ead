package services

import (
	"errors"
	"time"

	"blindspot-api/models"

	"gorm.io/gorm"
)

// requiredPredecessor maps each reachable status to the only state a
// transition may start from. Transitions never skip or move backward.
var requiredPredecessor = map[models.IssueStatus]models.IssueStatus{
	models.StatusAcknowledged: models.StatusIgnored,
	models.StatusInProgress:   models.StatusAcknowledged,
	models.StatusResolved:     models.StatusInProgress,
}

// LifecycleService applies authority-side status transitions. Each
// transition updates the issue and appends an audit log row in one
// transaction; a failed precondition leaves both untouched.
type LifecycleService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLifecycleService(db *gorm.DB) *LifecycleService {
	return &LifecycleService{db: db, now: time.Now}
}

// Acknowledge moves an ignored issue to acknowledged.
func (s *LifecycleService) Acknowledge(issueID, actorUserID uint, notes string) (*models.Issue, error) {
	return s.transition(issueID, actorUserID, models.StatusAcknowledged, notes)
}

// StartProgress moves an acknowledged issue to in_progress.
func (s *LifecycleService) StartProgress(issueID, actorUserID uint, notes string) (*models.Issue, error) {
	return s.transition(issueID, actorUserID, models.StatusInProgress, notes)
}

// Resolve moves an in_progress issue to its terminal resolved state.
func (s *LifecycleService) Resolve(issueID, actorUserID uint, notes string) (*models.Issue, error) {
	return s.transition(issueID, actorUserID, models.StatusResolved, notes)
}

// authorize loads the actor's authority link and checks it against the
// issue's category. Returns an AuthorizationError on any mismatch; this is
// deliberately distinct from the state precondition check.
func (s *LifecycleService) authorize(actorUserID uint, issue *models.Issue) (*models.AuthorityUser, error) {
	var link models.AuthorityUser
	err := s.db.Where("user_id = ?", actorUserID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &AuthorizationError{Reason: "account is not linked to an authority"}
	}
	if err != nil {
		return nil, err
	}

	if !link.IsActive {
		return nil, &AuthorizationError{Reason: "authority account is inactive"}
	}
	if link.AuthorityID != issue.Category.AuthorityID {
		return nil, &AuthorizationError{Reason: "issue belongs to a different authority"}
	}

	return &link, nil
}

func (s *LifecycleService) transition(issueID, actorUserID uint, target models.IssueStatus, notes string) (*models.Issue, error) {
	required, ok := requiredPredecessor[target]
	if !ok {
		return nil, &ValidationError{Field: "status", Message: "unknown target status"}
	}

	var issue models.Issue
	err := s.db.Preload("Category").Where("issue_id = ?", issueID).First(&issue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "issue", ID: issueID}
	}
	if err != nil {
		return nil, err
	}

	actor, err := s.authorize(actorUserID, &issue)
	if err != nil {
		return nil, err
	}

	if issue.Status != required {
		return nil, &StateError{Target: target, Required: required, Current: issue.Status}
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":            target,
		"status_updated_at": now,
	}
	switch target {
	case models.StatusAcknowledged:
		updates["acknowledged_at"] = now
	case models.StatusInProgress:
		updates["in_progress_at"] = now
	case models.StatusResolved:
		updates["resolved_at"] = now
	}

	actorID := actor.UserID
	logEntry := models.IssueStatusLog{
		IssueID:   issue.IssueID,
		OldStatus: issue.Status,
		NewStatus: target,
		ChangedBy: &actorID,
		CreatedAt: now,
	}
	if notes != "" {
		logEntry.Notes = &notes
	}

	// Status update and audit entry land together or not at all. The
	// update is guarded on the required status so a concurrent transition
	// on the same issue cannot stamp a timestamp twice: whichever write
	// matches the row wins, the other sees zero rows and rejects.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Issue{}).
			Where("issue_id = ? AND status = ?", issue.IssueID, required).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Issue
			if err := tx.Select("status").
				Where("issue_id = ?", issue.IssueID).First(&current).Error; err != nil {
				return &StateError{Target: target, Required: required, Current: issue.Status}
			}
			return &StateError{Target: target, Required: required, Current: current.Status}
		}
		return tx.Create(&logEntry).Error
	})
	if err != nil {
		return nil, err
	}

	issue.Status = target
	issue.StatusUpdatedAt = &now
	switch target {
	case models.StatusAcknowledged:
		issue.AcknowledgedAt = &now
	case models.StatusInProgress:
		issue.InProgressAt = &now
	case models.StatusResolved:
		issue.ResolvedAt = &now
	}

	return &issue, nil
}
