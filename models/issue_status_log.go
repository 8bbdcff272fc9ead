package models

import "time"

// IssueStatusLog is the append-only audit trail of status transitions.
// Rows are never mutated or deleted.
type IssueStatusLog struct {
	StatusLogID uint        `gorm:"primaryKey;column:status_log_id" json:"status_log_id"`
	IssueID     uint        `gorm:"column:issue_id" json:"issue_id"`
	OldStatus   IssueStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus   IssueStatus `gorm:"column:new_status" json:"new_status"`
	ChangedBy   *uint       `gorm:"column:changed_by" json:"changed_by,omitempty"`
	Notes       *string     `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt   time.Time   `gorm:"column:created_at" json:"created_at"`
}

func (IssueStatusLog) TableName() string { return "issue_status_logs" }
