package services

import (
	"math"
	"sort"
	"time"

	"blindspot-api/models"

	"gorm.io/gorm"
)

// AuthoritySilence is one scoreboard row: the average age in days of an
// authority's unresolved issues.
type AuthoritySilence struct {
	AuthorityID     uint    `json:"authority_id"`
	AuthorityName   string  `json:"authority_name"`
	Color           string  `json:"color"`
	UnresolvedCount int     `json:"unresolved_count"`
	SilenceScore    float64 `json:"silence_score"`
}

// SilenceScore averages days_since_report over the given unresolved issues,
// rounded to one decimal. Zero issues score exactly 0.0.
func SilenceScore(issues []models.Issue, now time.Time) float64 {
	if len(issues) == 0 {
		return 0.0
	}

	total := 0
	for i := range issues {
		total += DaysSinceReport(issues[i].ReportedAt, now)
	}

	mean := float64(total) / float64(len(issues))
	return math.Round(mean*10) / 10
}

// SilenceService computes authority inaction metrics on demand. Scores are
// never cached: they reflect live issue age even without new writes.
type SilenceService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSilenceService(db *gorm.DB) *SilenceService {
	return &SilenceService{db: db, now: time.Now}
}

// Scoreboard returns every authority with its unresolved count and silence
// score, worst first. Ties keep the authorities' input order.
func (s *SilenceService) Scoreboard() ([]AuthoritySilence, error) {
	var authorities []models.Authority
	if err := s.db.Order("authority_id").Find(&authorities).Error; err != nil {
		return nil, err
	}

	var unresolved []models.Issue
	if err := s.db.
		Where("status IN ?", []models.IssueStatus{
			models.StatusIgnored, models.StatusAcknowledged, models.StatusInProgress,
		}).
		Preload("Category").
		Find(&unresolved).Error; err != nil {
		return nil, err
	}

	byAuthority := make(map[uint][]models.Issue, len(authorities))
	for i := range unresolved {
		aid := unresolved[i].Category.AuthorityID
		byAuthority[aid] = append(byAuthority[aid], unresolved[i])
	}

	now := s.now()
	board := make([]AuthoritySilence, 0, len(authorities))
	for _, authority := range authorities {
		issues := byAuthority[authority.AuthorityID]
		board = append(board, AuthoritySilence{
			AuthorityID:     authority.AuthorityID,
			AuthorityName:   authority.Name,
			Color:           authority.Color,
			UnresolvedCount: len(issues),
			SilenceScore:    SilenceScore(issues, now),
		})
	}

	sortScoreboard(board)
	return board, nil
}

// sortScoreboard orders rows descending by score, keeping input order on ties.
func sortScoreboard(board []AuthoritySilence) {
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].SilenceScore > board[j].SilenceScore
	})
}
