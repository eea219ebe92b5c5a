package jobs

import (
	"context"
	"time"

	"github.com/yukikurage/agency-project-tracker/internal/models"
	"github.com/yukikurage/agency-project-tracker/internal/services"
	"go.uber.org/zap"
)

const reminderJobName = "project-reminders"

// ProjectLister returns a snapshot of every project.
type ProjectLister interface {
	All() []models.Project
}

// ReminderJob emits notifications for overdue deadlines and upcoming renewals.
type ReminderJob struct {
	projects ProjectLister
	notifier services.Notifier
	window   time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewReminderJob creates a reminder flagging renewals at most window away.
func NewReminderJob(projects ProjectLister, notifier services.Notifier, window time.Duration, logger *zap.Logger) *ReminderJob {
	return &ReminderJob{
		projects: projects,
		notifier: notifier,
		window:   window,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Run checks every project once and returns how many notifications were sent.
// Completed projects never raise a deadline reminder.
func (j *ReminderJob) Run(ctx context.Context) int {
	now := j.now()
	sent := 0

	for _, p := range j.projects.All() {
		if p.Status != models.ProjectStatusCompleted && p.DeadlinePassed(now) {
			j.notifier.Notify(ctx, services.Notification{
				Title:       "Deadline Passed",
				Description: p.ClientName + " (" + p.ReferenceCode + ") was due " + p.Deadline.Format("2006-01-02"),
				Variant:     services.NotificationDestructive,
				ProjectID:   p.ID,
				CreatedAt:   now,
			})
			sent++
		}
		if p.RenewalDue(now, j.window) {
			j.notifier.Notify(ctx, services.Notification{
				Title:       "Renewal Due Soon",
				Description: p.ClientName + " (" + p.ReferenceCode + ") renews on " + p.RenewalDate.Format("2006-01-02"),
				ProjectID:   p.ID,
				CreatedAt:   now,
			})
			sent++
		}
	}

	j.logger.Info("project reminders checked", zap.Int("notifications", sent))
	return sent
}

func (j *ReminderJob) Name() string { return reminderJobName }
