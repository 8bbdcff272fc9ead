package models

import "time"

// IssueStatus is the lifecycle state of a reported issue.
type IssueStatus string

const (
	StatusIgnored      IssueStatus = "ignored"
	StatusAcknowledged IssueStatus = "acknowledged"
	StatusInProgress   IssueStatus = "in_progress"
	StatusResolved     IssueStatus = "resolved"
)

// StatusDisplay returns the human-readable label for a status.
func StatusDisplay(s IssueStatus) string {
	switch s {
	case StatusIgnored:
		return "Ignored"
	case StatusAcknowledged:
		return "Acknowledged"
	case StatusInProgress:
		return "In Progress"
	case StatusResolved:
		return "Resolved"
	}
	return string(s)
}

// Issue is a reported civic problem at a specific location.
//
// Transition timestamps are set exactly once, at the moment of the
// corresponding transition, and never cleared.
type Issue struct {
	IssueID     uint        `gorm:"primaryKey;column:issue_id" json:"issue_id"`
	Title       string      `gorm:"column:title" json:"title"`
	Description string      `gorm:"column:description" json:"description"`
	CategoryID  uint        `gorm:"column:category_id" json:"category_id"`
	Latitude    float64     `gorm:"column:latitude;type:decimal(10,7)" json:"latitude"`
	Longitude   float64     `gorm:"column:longitude;type:decimal(10,7)" json:"longitude"`
	Address     string      `gorm:"column:address" json:"address"`
	Severity    int         `gorm:"column:severity" json:"severity"`
	Status      IssueStatus `gorm:"column:status" json:"status"`

	ReportedAt      time.Time  `gorm:"column:reported_at" json:"reported_at"`
	AcknowledgedAt  *time.Time `gorm:"column:acknowledged_at" json:"acknowledged_at,omitempty"`
	InProgressAt    *time.Time `gorm:"column:in_progress_at" json:"in_progress_at,omitempty"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	StatusUpdatedAt *time.Time `gorm:"column:status_updated_at" json:"status_updated_at,omitempty"`

	ReportedBy *uint   `gorm:"column:reported_by" json:"reported_by,omitempty"`
	ImagePath  *string `gorm:"column:image_path" json:"image_path,omitempty"`

	// Relations
	Category Category `gorm:"foreignKey:CategoryID;references:CategoryID" json:"category,omitempty"`
	Reporter *User    `gorm:"foreignKey:ReportedBy" json:"reporter,omitempty"`
}

func (Issue) TableName() string { return "issues" }

// IsResolved reports whether the issue reached the terminal state.
func (i *Issue) IsResolved() bool { return i.Status == StatusResolved }
