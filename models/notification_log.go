package models

import "time"

// Notification delivery states.
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
)

// NotificationLog records one email notification attempt. A row is created
// in the pending state before the send is attempted and settled to sent or
// failed exactly once afterwards. Rows are never deleted.
type NotificationLog struct {
	NotificationLogID uint       `gorm:"primaryKey;column:notification_log_id" json:"notification_log_id"`
	IssueID           uint       `gorm:"column:issue_id" json:"issue_id"`
	AuthorityID       uint       `gorm:"column:authority_id" json:"authority_id"`
	EmailAddress      string     `gorm:"column:email_address" json:"email_address"`
	Status            string     `gorm:"column:status" json:"status"` // pending|sent|failed
	ErrorMessage      *string    `gorm:"column:error_message" json:"error_message,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (NotificationLog) TableName() string { return "notification_logs" }
