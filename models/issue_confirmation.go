package models

import "time"

// IssueConfirmation records that a user vouches an issue is real.
// At most one exists per (issue, user) pair.
type IssueConfirmation struct {
	ConfirmationID uint      `gorm:"primaryKey;column:confirmation_id" json:"confirmation_id"`
	IssueID        uint      `gorm:"column:issue_id;uniqueIndex:uq_issue_user" json:"issue_id"`
	UserID         uint      `gorm:"column:user_id;uniqueIndex:uq_issue_user" json:"user_id"`
	Comment        string    `gorm:"column:comment" json:"comment"`
	ConfirmedAt    time.Time `gorm:"column:confirmed_at" json:"confirmed_at"`
}

func (IssueConfirmation) TableName() string { return "issue_confirmations" }
