package services

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"blindspot-api/models"
)

var (
	notificationInsertPattern       = regexp.MustCompile("INSERT INTO `notification_logs`")
	notificationSentUpdatePattern   = regexp.MustCompile("UPDATE `notification_logs` SET `status`=\\?,`updated_at`=\\? WHERE notification_log_id = \\?")
	notificationFailedUpdatePattern = regexp.MustCompile("UPDATE `notification_logs` SET `error_message`=\\?,`status`=\\?,`updated_at`=\\? WHERE notification_log_id = \\?")
)

type recordingMailer struct {
	mu      sync.Mutex
	to      []string
	subject []string
	body    []string
	err     error
}

func (m *recordingMailer) send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return m.err
}

func (m *recordingMailer) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.to)
}

func notifiableIssue() models.Issue {
	return models.Issue{
		IssueID:     41,
		Title:       "Massive pothole near Marine Drive",
		Description: "Two-wheelers are swerving into traffic to avoid it.",
		Severity:    4,
		Status:      models.StatusIgnored,
		Latitude:    9.9815,
		Longitude:   76.2760,
		ReportedAt:  time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Category:    models.Category{CategoryID: 9, Name: "Pothole"},
	}
}

func authorityWithEmail(email string) models.Authority {
	return models.Authority{
		AuthorityID: 2,
		Name:        "Roads & Infrastructure Department",
		Email:       &email,
	}
}

func TestDispatchSkipsAuthorityWithoutEmail(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	mailer := &recordingMailer{}

	n := NewNotifier(db, mailer.send, 4)
	entry := n.Dispatch(notifiableIssue(), models.Authority{AuthorityID: 2, Name: "No Inbox"})
	n.Stop()

	if entry != nil {
		t.Fatalf("expected nil entry for authority without email, got %+v", entry)
	}
	if mailer.calls() != 0 {
		t.Fatalf("mailer should not be called, got %d calls", mailer.calls())
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDispatchDeliversAndSettlesToSent(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: notificationInsertPattern,
			result:  scriptedResult{lastInsertID: 11, rowsAffected: 1},
		},
		{kind: kindExec, pattern: notificationSentUpdatePattern},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	mailer := &recordingMailer{}

	n := NewNotifier(db, mailer.send, 4)
	entry := n.Dispatch(notifiableIssue(), authorityWithEmail("roads@kochi.gov.in"))
	if entry == nil {
		t.Fatalf("expected a log entry")
	}
	if entry.Status != models.NotificationPending {
		t.Fatalf("entry must be pending at dispatch time, got %s", entry.Status)
	}
	if entry.NotificationLogID != 11 {
		t.Fatalf("expected log id from insert, got %d", entry.NotificationLogID)
	}

	n.Stop()

	if mailer.calls() != 1 {
		t.Fatalf("expected exactly one send, got %d", mailer.calls())
	}
	if mailer.to[0] != "roads@kochi.gov.in" {
		t.Fatalf("unexpected recipient %s", mailer.to[0])
	}
	if want := "[Blindspot Initiative] New Issue Report #41: Massive pothole near Marine Drive"; mailer.subject[0] != want {
		t.Fatalf("unexpected subject %q", mailer.subject[0])
	}
	for _, fragment := range []string{
		"Issue ID: #41",
		"Category: Pothole",
		"Authority: Roads & Infrastructure Department",
		"Severity: High (Level 4/5)",
		"Coordinates: 9.9815000, 76.2760000",
		"Current Status: Ignored",
	} {
		if !strings.Contains(mailer.body[0], fragment) {
			t.Fatalf("body missing %q:\n%s", fragment, mailer.body[0])
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDispatchRecordsFailureWithoutRetry(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: notificationInsertPattern,
			result:  scriptedResult{lastInsertID: 11, rowsAffected: 1},
		},
		// The failed settle writes the error message; no further steps means
		// no retry is attempted.
		{kind: kindExec, pattern: notificationFailedUpdatePattern},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	mailer := &recordingMailer{err: errors.New("smtp: connection refused")}

	n := NewNotifier(db, mailer.send, 4)
	if entry := n.Dispatch(notifiableIssue(), authorityWithEmail("roads@kochi.gov.in")); entry == nil {
		t.Fatalf("expected a log entry even when delivery later fails")
	}
	n.Stop()

	if mailer.calls() != 1 {
		t.Fatalf("expected exactly one attempt, got %d", mailer.calls())
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDispatchFallsBackWhenQueueIsFull(t *testing.T) {
	// Three dispatches against a queue of size 1 while every send is held
	// open: at most one job fits the queue and one the worker, so at least
	// one dispatch takes the detached fallback path. All three must still
	// be delivered, and Stop must wait for all of them.
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: notificationInsertPattern,
			result:  scriptedResult{lastInsertID: 11, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: notificationInsertPattern,
			result:  scriptedResult{lastInsertID: 12, rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: notificationInsertPattern,
			result:  scriptedResult{lastInsertID: 13, rowsAffected: 1},
		},
		{kind: kindExec, pattern: notificationSentUpdatePattern},
		{kind: kindExec, pattern: notificationSentUpdatePattern},
		{kind: kindExec, pattern: notificationSentUpdatePattern},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	send := func(to, subject, body string) error {
		<-release
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	}

	n := NewNotifier(db, send, 1)
	n.Dispatch(notifiableIssue(), authorityWithEmail("roads@kochi.gov.in"))
	n.Dispatch(notifiableIssue(), authorityWithEmail("roads@kochi.gov.in"))
	n.Dispatch(notifiableIssue(), authorityWithEmail("roads@kochi.gov.in"))
	close(release)
	n.Stop()

	mu.Lock()
	got := calls
	mu.Unlock()
	if got != 3 {
		t.Fatalf("expected all three notifications delivered, got %d", got)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
