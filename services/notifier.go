package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"blindspot-api/models"

	"gorm.io/gorm"
)

// Mailer delivers one message to one recipient, or returns a descriptive
// error. config.SendMail is adapted to this in cmd/api.
type Mailer func(to, subject, body string) error

var severityLabels = map[int]string{
	1: "Minor",
	2: "Low",
	3: "Moderate",
	4: "High",
	5: "Critical",
}

type notifyJob struct {
	logID     uint
	issue     models.Issue
	authority models.Authority
	email     string
}

// Notifier emails the responsible authority when an issue is created.
// Dispatch is synchronous up to the pending log insert; the send itself
// runs on a worker fed by a bounded queue, so issue creation never waits
// on SMTP. Sends are independent: one failure cannot affect another, and
// no failure ever reaches the citizen who filed the report.
type Notifier struct {
	db    *gorm.DB
	send  Mailer
	queue chan notifyJob
	wg    sync.WaitGroup
	now   func() time.Time
}

// NewNotifier starts the delivery worker. queueSize bounds the number of
// sends waiting behind a slow SMTP server.
func NewNotifier(db *gorm.DB, send Mailer, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = 64
	}

	n := &Notifier{
		db:    db,
		send:  send,
		queue: make(chan notifyJob, queueSize),
		now:   time.Now,
	}

	n.wg.Add(1)
	go n.worker()

	return n
}

// Dispatch queues exactly one notification for a freshly created issue.
// No-op when the authority has no configured email. The returned log entry
// is still pending; it settles to sent or failed after the attempt.
func (n *Notifier) Dispatch(issue models.Issue, authority models.Authority) *models.NotificationLog {
	if !authority.HasEmail() {
		return nil
	}

	entry := models.NotificationLog{
		IssueID:      issue.IssueID,
		AuthorityID:  authority.AuthorityID,
		EmailAddress: *authority.Email,
		Status:       models.NotificationPending,
		CreatedAt:    n.now(),
	}
	if err := n.db.Create(&entry).Error; err != nil {
		log.Printf("notification log create failed for issue %d: %v", issue.IssueID, err)
		return nil
	}

	job := notifyJob{
		logID:     entry.NotificationLogID,
		issue:     issue,
		authority: authority,
		email:     entry.EmailAddress,
	}

	select {
	case n.queue <- job:
	default:
		// Queue full: fall back to a detached send rather than block the
		// request that triggered the dispatch.
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			n.deliver(job)
		}()
	}

	return &entry
}

// Stop drains the queue and waits for in-flight sends. Used on shutdown
// and in tests.
func (n *Notifier) Stop() {
	close(n.queue)
	n.wg.Wait()
}

func (n *Notifier) worker() {
	defer n.wg.Done()
	for job := range n.queue {
		n.deliver(job)
	}
}

// deliver performs the send and settles the log entry exactly once. There
// is no retry.
func (n *Notifier) deliver(job notifyJob) {
	subject, body := buildNotificationEmail(&job.issue, &job.authority)

	updates := map[string]interface{}{"updated_at": n.now()}
	if err := n.send(job.email, subject, body); err != nil {
		updates["status"] = models.NotificationFailed
		updates["error_message"] = err.Error()
		log.Printf("notification for issue %d failed: %v", job.issue.IssueID, err)
	} else {
		updates["status"] = models.NotificationSent
	}

	if err := n.db.Model(&models.NotificationLog{}).
		Where("notification_log_id = ?", job.logID).
		Updates(updates).Error; err != nil {
		log.Printf("notification log update failed for issue %d: %v", job.issue.IssueID, err)
	}
}

func buildNotificationEmail(issue *models.Issue, authority *models.Authority) (subject, body string) {
	subject = fmt.Sprintf("[Blindspot Initiative] New Issue Report #%d: %s", issue.IssueID, issue.Title)

	severity, ok := severityLabels[issue.Severity]
	if !ok {
		severity = "Unknown"
	}

	address := issue.Address
	if address == "" {
		address = "Not specified"
	}

	mapLink := fmt.Sprintf("https://www.google.com/maps?q=%.7f,%.7f", issue.Latitude, issue.Longitude)

	body = fmt.Sprintf(`THE BLINDSPOT INITIATIVE - CIVIC ISSUE NOTIFICATION
====================================================

A new civic issue has been reported and requires your attention.

ISSUE DETAILS
-------------
Issue ID: #%d
Title: %s
Category: %s
Authority: %s
Severity: %s (Level %d/5)

LOCATION
--------
Address: %s
Coordinates: %.7f, %.7f
View on Map: %s

DESCRIPTION
-----------
%s

REPORT DETAILS
--------------
Reported On: %s
Current Status: %s

TRANSPARENCY NOTICE
-------------------
This issue has been publicly logged on The Blindspot Initiative platform
(https://blindspot.org). The community is actively monitoring the status
of this report.

This is an automated notification from The Blindspot Initiative -
a civic accountability platform documenting government neglect in public spaces.

---
The Blindspot Initiative
"These problems were never invisible - we just stopped seeing them."
`,
		issue.IssueID,
		issue.Title,
		issue.Category.Name,
		authority.Name,
		severity,
		issue.Severity,
		address,
		issue.Latitude,
		issue.Longitude,
		mapLink,
		issue.Description,
		issue.ReportedAt.Format("January 02, 2006 at 3:04 PM"),
		models.StatusDisplay(issue.Status),
	)

	return subject, body
}
