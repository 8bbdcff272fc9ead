package services

import (
	"time"

	"blindspot-api/models"
)

// UrgencyLevel is the derived tier of an issue, recomputed on every read.
type UrgencyLevel string

const (
	UrgencyRecent   UrgencyLevel = "recent"
	UrgencyModerate UrgencyLevel = "moderate"
	UrgencySerious  UrgencyLevel = "serious"
	UrgencyCritical UrgencyLevel = "critical"
)

// EscalationLabel flags prolonged inaction on an issue.
type EscalationLabel string

const (
	EscalationNone           EscalationLabel = "None"
	EscalationUnacknowledged EscalationLabel = "unacknowledged"
	EscalationSystemic       EscalationLabel = "systemic_neglect"
)

var urgencyColors = map[UrgencyLevel]string{
	UrgencyCritical: "#ff4d4d",
	UrgencySerious:  "#ff8c00",
	UrgencyModerate: "#ffd700",
	UrgencyRecent:   "#4ade80",
}

// DefaultUrgencyColor is the fallback for an unrecognized tier.
const DefaultUrgencyColor = "#4d9fff"

// Urgency bundles the derived metrics of a single issue at a point in time.
type Urgency struct {
	DaysSinceReport int             `json:"days_since_report"`
	DaysIgnored     int             `json:"days_ignored"`
	Level           UrgencyLevel    `json:"urgency_level"`
	Color           string          `json:"urgency_color"`
	Escalation      EscalationLabel `json:"escalation_label"`
}

// wholeDays is the floored number of full days between two instants.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// DaysSinceReport returns whole days elapsed since the issue was reported.
func DaysSinceReport(reportedAt, now time.Time) int {
	return wholeDays(reportedAt, now)
}

// DaysIgnored returns how many whole days the issue sat in the ignored
// state. For issues still ignored this grows with now; once acknowledged it
// is frozen at the report-to-acknowledgement span.
func DaysIgnored(status models.IssueStatus, reportedAt time.Time, acknowledgedAt *time.Time, now time.Time) int {
	if status == models.StatusIgnored {
		return DaysSinceReport(reportedAt, now)
	}
	if acknowledgedAt != nil {
		return wholeDays(reportedAt, *acknowledgedAt)
	}
	return 0
}

// UrgencyLevelFor derives the tier from severity and days ignored. First
// matching tier wins, checked highest first.
func UrgencyLevelFor(severity, daysIgnored int) UrgencyLevel {
	switch {
	case daysIgnored >= 40 || severity >= 5:
		return UrgencyCritical
	case daysIgnored >= 20 || severity >= 4:
		return UrgencySerious
	case daysIgnored >= 7 || severity >= 3:
		return UrgencyModerate
	}
	return UrgencyRecent
}

// EscalationFor derives the inaction label. Resolved issues never escalate.
func EscalationFor(status models.IssueStatus, daysIgnored int) EscalationLabel {
	if status == models.StatusResolved {
		return EscalationNone
	}
	switch {
	case daysIgnored >= 30:
		return EscalationSystemic
	case daysIgnored >= 14:
		return EscalationUnacknowledged
	}
	return EscalationNone
}

// UrgencyColorFor maps a tier to its marker color.
func UrgencyColorFor(level UrgencyLevel) string {
	if color, ok := urgencyColors[level]; ok {
		return color
	}
	return DefaultUrgencyColor
}

// ClassifyIssue computes all derived metrics for one issue. Pure; never
// touches the database.
func ClassifyIssue(issue *models.Issue, now time.Time) Urgency {
	daysIgnored := DaysIgnored(issue.Status, issue.ReportedAt, issue.AcknowledgedAt, now)
	level := UrgencyLevelFor(issue.Severity, daysIgnored)

	return Urgency{
		DaysSinceReport: DaysSinceReport(issue.ReportedAt, now),
		DaysIgnored:     daysIgnored,
		Level:           level,
		Color:           UrgencyColorFor(level),
		Escalation:      EscalationFor(issue.Status, daysIgnored),
	}
}
