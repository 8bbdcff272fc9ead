package services

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"blindspot-api/models"

	"gorm.io/gorm"
)

// ConfirmResult reports the outcome of a confirmation attempt. A duplicate
// attempt is a distinguishable no-op, not an error.
type ConfirmResult struct {
	Created           bool  `json:"created"`
	ConfirmationCount int64 `json:"confirmation_count"`
}

// LedgerService owns community input on issues: idempotent confirmations
// and the append-only comment log.
type LedgerService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db, now: time.Now}
}

// Confirm records that a user vouches the issue is real. The first
// confirmation by a user also increments that user's confirmation counter;
// a repeat attempt changes nothing and returns Created=false.
func (s *LedgerService) Confirm(issueID, userID uint, note string) (*ConfirmResult, error) {
	var issue models.Issue
	err := s.db.Where("issue_id = ?", issueID).First(&issue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "issue", ID: issueID}
	}
	if err != nil {
		return nil, err
	}

	created := false
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.IssueConfirmation
		err := tx.Where("issue_id = ? AND user_id = ?", issueID, userID).First(&existing).Error
		if err == nil {
			return nil // already confirmed, no writes
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		confirmation := models.IssueConfirmation{
			IssueID:     issueID,
			UserID:      userID,
			Comment:     strings.TrimSpace(note),
			ConfirmedAt: s.now(),
		}
		if err := tx.Create(&confirmation).Error; err != nil {
			// A concurrent confirmation can slip past the existence check
			// and hit the uq_issue_user index; that is the same no-op
			// outcome as reading the existing row.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil
			}
			return err
		}

		if err := incrementProfileCounter(tx, userID, "confirmations_count"); err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Live count of linked records, not a cached counter on the issue.
	var count int64
	if err := s.db.Model(&models.IssueConfirmation{}).
		Where("issue_id = ?", issueID).Count(&count).Error; err != nil {
		return nil, err
	}

	return &ConfirmResult{Created: created, ConfirmationCount: count}, nil
}

// HasConfirmed reports whether the user already confirmed the issue.
func (s *LedgerService) HasConfirmed(issueID, userID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.IssueConfirmation{}).
		Where("issue_id = ? AND user_id = ?", issueID, userID).
		Count(&count).Error
	return count > 0, err
}

// validateComment enforces the ledger rules on comment content and returns
// the trimmed text.
func validateComment(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", &ValidationError{Field: "content", Message: "comment cannot be empty"}
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommentLength {
		return "", &ValidationError{Field: "content", Message: "comment exceeds 500 characters"}
	}
	return trimmed, nil
}

// AddComment appends a remark to an issue. Comments are never edited or
// deleted.
func (s *LedgerService) AddComment(issueID, userID uint, content string) (*models.IssueComment, error) {
	trimmed, err := validateComment(content)
	if err != nil {
		return nil, err
	}

	var issue models.Issue
	err = s.db.Where("issue_id = ?", issueID).First(&issue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "issue", ID: issueID}
	}
	if err != nil {
		return nil, err
	}

	comment := models.IssueComment{
		IssueID:   issueID,
		UserID:    userID,
		Content:   trimmed,
		CreatedAt: s.now(),
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	return &comment, nil
}

// ListComments returns the newest comments first, capped at limit
// (defaults to 10 when limit is not positive).
func (s *LedgerService) ListComments(issueID uint, limit int) ([]models.IssueComment, error) {
	if limit <= 0 {
		limit = 10
	}

	var comments []models.IssueComment
	err := s.db.Where("issue_id = ?", issueID).
		Order("created_at DESC").
		Limit(limit).
		Preload("User").
		Find(&comments).Error
	return comments, err
}

// incrementProfileCounter bumps one engagement counter, creating the
// profile row on first touch.
func incrementProfileCounter(tx *gorm.DB, userID uint, column string) error {
	var profile models.UserProfile
	err := tx.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{UserID: userID}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	return tx.Model(&models.UserProfile{}).
		Where("user_id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}
