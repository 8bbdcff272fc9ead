package services

import (
	"math"
	"sort"
	"time"

	"blindspot-api/models"
	"blindspot-api/utils"

	"gorm.io/gorm"
)

// UnaddressedLimit caps the ranked list of ignored issues.
const UnaddressedLimit = 20

var unresolvedStatuses = []models.IssueStatus{
	models.StatusIgnored, models.StatusAcknowledged, models.StatusInProgress,
}

// IssueWithDistance is a radius query hit.
type IssueWithDistance struct {
	Issue      models.Issue `json:"issue"`
	DistanceKm float64      `json:"distance_km"`
}

// RankedIssue is one row of the unaddressed ranking.
type RankedIssue struct {
	Rank        int          `json:"rank"`
	Issue       models.Issue `json:"issue"`
	DaysIgnored int          `json:"days_ignored"`
}

// Statistics is the dashboard aggregate payload.
type Statistics struct {
	Total            int64                           `json:"total"`
	ByStatus         map[models.IssueStatus]int64    `json:"by_status"`
	ByAuthority      []AuthorityCount                `json:"by_authority"`
	AvgDaysIgnored   int                             `json:"avg_days_ignored"`
	NewThisWeek      int64                           `json:"new_this_week"`
	ResolvedThisWeek int64                           `json:"resolved_this_week"`
	CriticalCount    int64                           `json:"critical_count"`
}

// AuthorityCount is one per-authority tally, ordered most issues first.
type AuthorityCount struct {
	AuthorityName string `gorm:"column:authority_name" json:"authority_name"`
	Color         string `gorm:"column:color" json:"color"`
	Count         int64  `gorm:"column:count" json:"count"`
}

// QueryService answers map and dashboard reads. All derived values are
// recomputed per call from the loaded rows.
type QueryService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db, now: time.Now}
}

// NearbyBox returns issues inside a coordinate-delta window around the
// center. A cheap pre-filter, not geodesically accurate.
func (s *QueryService) NearbyBox(lat, lng, delta float64) ([]models.Issue, error) {
	if !utils.ValidCoordinates(lat, lng) {
		return nil, &ValidationError{Field: "coordinates", Message: "latitude/longitude out of range"}
	}
	if delta <= 0 {
		delta = 0.01 // roughly 1 km
	}

	var issues []models.Issue
	err := s.db.
		Where("latitude BETWEEN ? AND ?", lat-delta, lat+delta).
		Where("longitude BETWEEN ? AND ?", lng-delta, lng+delta).
		Preload("Category").Preload("Category.Authority").
		Find(&issues).Error
	return issues, err
}

// NearbyRadius returns unresolved issues within radiusKm of the center,
// closest first, using exact great-circle distances.
func (s *QueryService) NearbyRadius(lat, lng, radiusKm float64) ([]IssueWithDistance, error) {
	if !utils.ValidCoordinates(lat, lng) {
		return nil, &ValidationError{Field: "coordinates", Message: "latitude/longitude out of range"}
	}
	if radiusKm < 0 {
		return nil, &ValidationError{Field: "radius", Message: "radius cannot be negative"}
	}

	var issues []models.Issue
	err := s.db.
		Where("status IN ?", unresolvedStatuses).
		Preload("Category").Preload("Category.Authority").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}

	return filterByRadius(issues, lat, lng, radiusKm), nil
}

// filterByRadius keeps issues within radiusKm of the center, sorted
// ascending by distance, distances rounded to two decimals.
func filterByRadius(issues []models.Issue, lat, lng, radiusKm float64) []IssueWithDistance {
	hits := make([]IssueWithDistance, 0)
	for i := range issues {
		d := utils.HaversineKm(lat, lng, issues[i].Latitude, issues[i].Longitude)
		if d <= radiusKm {
			hits = append(hits, IssueWithDistance{
				Issue:      issues[i],
				DistanceKm: math.Round(d*100) / 100,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].DistanceKm < hits[j].DistanceKm
	})
	return hits
}

// Unaddressed ranks still-ignored issues by how long they have been
// ignored, worst first, capped at UnaddressedLimit. days_ignored is
// derived, so the sort happens here rather than in SQL.
func (s *QueryService) Unaddressed() ([]RankedIssue, error) {
	var issues []models.Issue
	err := s.db.
		Where("status = ?", models.StatusIgnored).
		Preload("Category").Preload("Category.Authority").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}

	return rankUnaddressed(issues, s.now()), nil
}

// rankUnaddressed sorts descending by days ignored (stable) and assigns
// dense 1-based ranks to the top entries.
func rankUnaddressed(issues []models.Issue, now time.Time) []RankedIssue {
	ranked := make([]RankedIssue, 0, len(issues))
	for i := range issues {
		ranked = append(ranked, RankedIssue{
			Issue:       issues[i],
			DaysIgnored: DaysIgnored(issues[i].Status, issues[i].ReportedAt, issues[i].AcknowledgedAt, now),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DaysIgnored > ranked[j].DaysIgnored
	})

	if len(ranked) > UnaddressedLimit {
		ranked = ranked[:UnaddressedLimit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// GetStatistics aggregates the dashboard numbers.
func (s *QueryService) GetStatistics() (*Statistics, error) {
	stats := &Statistics{ByStatus: make(map[models.IssueStatus]int64, 4)}

	if err := s.db.Model(&models.Issue{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	for _, status := range []models.IssueStatus{
		models.StatusIgnored, models.StatusAcknowledged,
		models.StatusInProgress, models.StatusResolved,
	} {
		var count int64
		if err := s.db.Model(&models.Issue{}).
			Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}

	if err := s.db.Model(&models.Issue{}).
		Select("authorities.name AS authority_name, authorities.color AS color, COUNT(*) AS count").
		Joins("JOIN categories ON categories.category_id = issues.category_id").
		Joins("JOIN authorities ON authorities.authority_id = categories.authority_id").
		Group("authorities.authority_id, authorities.name, authorities.color").
		Order("count DESC").
		Find(&stats.ByAuthority).Error; err != nil {
		return nil, err
	}

	var ignored []models.Issue
	if err := s.db.Where("status = ?", models.StatusIgnored).Find(&ignored).Error; err != nil {
		return nil, err
	}
	stats.AvgDaysIgnored = avgDaysIgnored(ignored, s.now())

	weekAgo := s.now().AddDate(0, 0, -7)
	if err := s.db.Model(&models.Issue{}).
		Where("reported_at >= ?", weekAgo).Count(&stats.NewThisWeek).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Issue{}).
		Where("resolved_at >= ?", weekAgo).Count(&stats.ResolvedThisWeek).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Issue{}).
		Where("severity >= ? AND status = ?", 4, models.StatusIgnored).
		Count(&stats.CriticalCount).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// avgDaysIgnored is the floor-division mean of days_ignored over the given
// ignored issues. Zero issues average to zero.
func avgDaysIgnored(issues []models.Issue, now time.Time) int {
	if len(issues) == 0 {
		return 0
	}

	total := 0
	for i := range issues {
		total += DaysIgnored(issues[i].Status, issues[i].ReportedAt, issues[i].AcknowledgedAt, now)
	}
	return total / len(issues)
}
