package services

import (
	"testing"
	"time"

	"blindspot-api/models"
)

func unresolvedIssue(now time.Time, ageDays int) models.Issue {
	return models.Issue{
		Status:     models.StatusIgnored,
		ReportedAt: now.AddDate(0, 0, -ageDays),
	}
}

func TestSilenceScoreEmptySetIsZero(t *testing.T) {
	now := time.Now()

	if got := SilenceScore(nil, now); got != 0.0 {
		t.Fatalf("expected 0.0 for no issues, got %v", got)
	}
	if got := SilenceScore([]models.Issue{}, now); got != 0.0 {
		t.Fatalf("expected 0.0 for empty slice, got %v", got)
	}
}

func TestSilenceScoreIsMeanOfAges(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	issues := []models.Issue{
		unresolvedIssue(now, 10),
		unresolvedIssue(now, 20),
		unresolvedIssue(now, 30),
	}

	if got := SilenceScore(issues, now); got != 20.0 {
		t.Fatalf("expected 20.0, got %v", got)
	}
}

func TestSilenceScoreRoundsToOneDecimal(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// (1 + 2) / 3 = 1.0; (10 + 11) / 2 = 10.5; (1 + 1 + 2) / 3 = 1.333... -> 1.3
	issues := []models.Issue{
		unresolvedIssue(now, 1),
		unresolvedIssue(now, 1),
		unresolvedIssue(now, 2),
	}
	if got := SilenceScore(issues, now); got != 1.3 {
		t.Fatalf("expected 1.3, got %v", got)
	}

	issues = []models.Issue{
		unresolvedIssue(now, 10),
		unresolvedIssue(now, 11),
	}
	if got := SilenceScore(issues, now); got != 10.5 {
		t.Fatalf("expected 10.5, got %v", got)
	}
}

func TestScoreboardSortsWorstFirstWithStableTies(t *testing.T) {
	board := []AuthoritySilence{
		{AuthorityID: 1, AuthorityName: "A", SilenceScore: 5.0},
		{AuthorityID: 2, AuthorityName: "B", SilenceScore: 12.5},
		{AuthorityID: 3, AuthorityName: "C", SilenceScore: 5.0},
		{AuthorityID: 4, AuthorityName: "D", SilenceScore: 0.0},
	}

	sortScoreboard(board)

	wantOrder := []uint{2, 1, 3, 4}
	for i, want := range wantOrder {
		if board[i].AuthorityID != want {
			t.Fatalf("position %d: got authority %d, want %d (%+v)", i, board[i].AuthorityID, want, board)
		}
	}
}
