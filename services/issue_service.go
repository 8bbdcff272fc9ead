package services

import (
	"errors"
	"strings"
	"time"

	"blindspot-api/models"
	"blindspot-api/utils"

	"gorm.io/gorm"
)

// CreateIssueInput carries a citizen's report. Severity 0 means "use the
// category default".
type CreateIssueInput struct {
	Title       string
	Description string
	CategoryID  uint
	Latitude    float64
	Longitude   float64
	Address     string
	Severity    int
	ReportedBy  *uint
	ImagePath   *string
}

// IssueFilter narrows issue listings. Zero values mean "no filter".
type IssueFilter struct {
	AuthorityID uint
	CategoryID  uint
	Status      models.IssueStatus
}

// IssueDetail is one issue with its derived metrics and live counts.
type IssueDetail struct {
	Issue              models.Issue `json:"issue"`
	Urgency            Urgency      `json:"urgency"`
	ConfirmationCount  int64        `json:"confirmation_count"`
	UserConfirmed      bool         `json:"user_confirmed"`
	ReporterName       string       `json:"reported_by"`
	NotificationStatus string       `json:"notification_status,omitempty"`
}

// IssueService handles citizen-side issue creation and reads.
type IssueService struct {
	db       *gorm.DB
	notifier *Notifier
	now      func() time.Time
}

func NewIssueService(db *gorm.DB, notifier *Notifier) *IssueService {
	return &IssueService{db: db, notifier: notifier, now: time.Now}
}

func (s *IssueService) validate(in *CreateIssueInput) error {
	in.Title = utils.SanitizeInput(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)

	if in.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if in.CategoryID == 0 {
		return &ValidationError{Field: "category_id", Message: "category is required"}
	}
	if !utils.ValidCoordinates(in.Latitude, in.Longitude) {
		return &ValidationError{Field: "coordinates", Message: "latitude/longitude out of range"}
	}
	if in.Severity < 0 || in.Severity > 5 {
		return &ValidationError{Field: "severity", Message: "severity must be between 1 and 5"}
	}
	return nil
}

// Create validates and stores a new issue, bumps the reporter's counter,
// and dispatches the authority notification. The notification outcome
// never affects the returned result: by the time the email settles, the
// report has already succeeded.
func (s *IssueService) Create(in CreateIssueInput) (*models.Issue, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	var category models.Category
	err := s.db.Preload("Authority").Where("category_id = ?", in.CategoryID).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "category", ID: in.CategoryID}
	}
	if err != nil {
		return nil, err
	}

	severity := in.Severity
	if severity == 0 {
		severity = category.DefaultSeverity
	}

	issue := models.Issue{
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  category.CategoryID,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Address:     in.Address,
		Severity:    severity,
		Status:      models.StatusIgnored,
		ReportedAt:  s.now(),
		ReportedBy:  in.ReportedBy,
		ImagePath:   in.ImagePath,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&issue).Error; err != nil {
			return err
		}
		if in.ReportedBy != nil {
			return incrementProfileCounter(tx, *in.ReportedBy, "reports_count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	issue.Category = category
	if s.notifier != nil {
		s.notifier.Dispatch(issue, category.Authority)
	}

	return &issue, nil
}

// Get returns one issue with derived metrics, the live confirmation count,
// whether viewerID (0 = anonymous) confirmed it, and the latest
// notification status. Readers immediately after creation may still see
// the notification as pending.
func (s *IssueService) Get(issueID, viewerID uint) (*IssueDetail, error) {
	var issue models.Issue
	err := s.db.Preload("Category").Preload("Category.Authority").Preload("Reporter").
		Where("issue_id = ?", issueID).First(&issue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "issue", ID: issueID}
	}
	if err != nil {
		return nil, err
	}

	var confirmations int64
	if err := s.db.Model(&models.IssueConfirmation{}).
		Where("issue_id = ?", issueID).Count(&confirmations).Error; err != nil {
		return nil, err
	}

	userConfirmed := false
	if viewerID != 0 {
		var c int64
		if err := s.db.Model(&models.IssueConfirmation{}).
			Where("issue_id = ? AND user_id = ?", issueID, viewerID).
			Count(&c).Error; err != nil {
			return nil, err
		}
		userConfirmed = c > 0
	}

	reporterName := "Anonymous"
	if issue.Reporter != nil {
		reporterName = issue.Reporter.Username
	}

	detail := IssueDetail{
		Issue:             issue,
		Urgency:           ClassifyIssue(&issue, s.now()),
		ConfirmationCount: confirmations,
		UserConfirmed:     userConfirmed,
		ReporterName:      reporterName,
	}

	var notification models.NotificationLog
	err = s.db.Where("issue_id = ?", issueID).
		Order("created_at DESC").First(&notification).Error
	if err == nil {
		detail.NotificationStatus = notification.Status
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &detail, nil
}

// List returns issues matching the filter, newest reports first.
func (s *IssueService) List(filter IssueFilter) ([]models.Issue, error) {
	q := s.db.Preload("Category").Preload("Category.Authority")

	if filter.AuthorityID != 0 {
		q = q.Joins("JOIN categories ON categories.category_id = issues.category_id").
			Where("categories.authority_id = ?", filter.AuthorityID)
	}
	if filter.CategoryID != 0 {
		q = q.Where("issues.category_id = ?", filter.CategoryID)
	}
	if filter.Status != "" {
		q = q.Where("issues.status = ?", filter.Status)
	}

	var issues []models.Issue
	err := q.Order("issues.reported_at DESC").Find(&issues).Error
	return issues, err
}

// ConfirmationCounts returns the live confirmation tally per issue for the
// given issue set.
func (s *IssueService) ConfirmationCounts(issueIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(issueIDs))
	if len(issueIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		IssueID uint  `gorm:"column:issue_id"`
		Total   int64 `gorm:"column:total"`
	}
	err := s.db.Model(&models.IssueConfirmation{}).
		Select("issue_id, COUNT(*) AS total").
		Where("issue_id IN ?", issueIDs).
		Group("issue_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.IssueID] = row.Total
	}
	return counts, nil
}
