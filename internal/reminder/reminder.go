package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Dan9191/debt-terms/internal/apperr"
	"github.com/Dan9191/debt-terms/internal/models"
	"github.com/Dan9191/debt-terms/internal/schedule"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// EntryLister lists agreements that have a contact email
type EntryLister interface {
	ListEntriesWithContact(ctx context.Context) ([]models.DebtRegistryEntry, error)
}

// Sender delivers a single installment reminder
type Sender interface {
	SendInstallmentReminder(to string, entry models.DebtRegistryEntry, inst models.Installment) error
}

// Job emails debtors about installments falling due within a window.
// Each run covers the part of the window not covered by the previous run,
// so an installment is reminded about at most once per process.
type Job struct {
	entries EntryLister
	sender  Sender
	window  time.Duration
	now     func() time.Time
	log     *logrus.Logger

	mu   sync.Mutex
	last time.Time
}

// NewJob creates a reminder job
func NewJob(entries EntryLister, sender Sender, window time.Duration, log *logrus.Logger) *Job {
	return &Job{
		entries: entries,
		sender:  sender,
		window:  window,
		now:     time.Now,
		log:     log,
	}
}

// Start schedules the job on a new cron runner and starts it.
func (j *Job) Start(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		if _, err := j.Run(context.Background()); err != nil {
			j.log.Errorf("Reminder run failed: %v", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}

// Run sends reminders for installments due in the current window and
// returns how many were sent. Entries whose terms cannot be scheduled and
// failed deliveries are logged and skipped.
func (j *Job) Run(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	from := now
	if !j.last.IsZero() && j.last.After(now.Add(-j.window)) {
		from = j.last.Add(j.window)
	}
	to := now.Add(j.window)

	entries, err := j.entries.ListEntriesWithContact(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list entries: %w", err)
	}

	sent := 0
	for _, entry := range entries {
		installments, err := schedule.Installments(entry)
		if err != nil {
			j.log.WithFields(logrus.Fields{
				"agreement": entry.AgreementID,
				"code":      apperr.CodeOf(err),
			}).Warnf("Skipping unschedulable agreement: %v", err)
			continue
		}
		for _, inst := range installments {
			due := inst.DueTime()
			if !due.After(from) || due.After(to) {
				continue
			}
			if err := j.sender.SendInstallmentReminder(entry.ContactEmail, entry, inst); err != nil {
				j.log.WithFields(logrus.Fields{
					"agreement":   entry.AgreementID,
					"installment": inst.Number,
				}).Errorf("Failed to send reminder: %v", err)
				continue
			}
			sent++
		}
	}

	j.last = now
	j.log.Infof("Reminder run complete: %d sent", sent)
	return sent, nil
}
