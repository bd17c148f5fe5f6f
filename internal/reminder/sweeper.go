package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/semaglide/backend/internal/dosing"
	"github.com/semaglide/backend/pkg/model"
	"go.uber.org/zap"
)

// Kind identifies the reminder trigger
type Kind string

const (
	KindPreDose    Kind = "pre_dose"
	KindPostDose   Kind = "post_dose"
	KindMissedDose Kind = "missed_dose"
)

// Notification is a single reminder event emitted by a sweep
type Notification struct {
	UserID     string
	ScheduleID string
	Kind       Kind
	DueAt      time.Time
	Message    string
}

// Notifier delivers reminder notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log. It stands in
// until a push delivery channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the notification
func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.logger.Info("reminder notification",
		zap.String("user_id", notification.UserID),
		zap.String("schedule_id", notification.ScheduleID),
		zap.String("kind", string(notification.Kind)),
		zap.Time("due_at", notification.DueAt),
		zap.String("message", notification.Message),
	)
	return nil
}

// ScheduleSource lists schedules eligible for reminders
type ScheduleSource interface {
	ListActiveWithReminders(ctx context.Context) ([]model.ScheduleConfig, error)
}

// DoseSource retrieves the latest dose for a user
type DoseSource interface {
	FindLatestByUserID(ctx context.Context, userID string) (*model.DoseEvent, error)
}

// Sweeper periodically scans active schedules and emits due reminders.
// Each trigger fires at most once: a reminder is sent only when its
// trigger time falls inside the window covered by the current sweep.
type Sweeper struct {
	schedules ScheduleSource
	doses     DoseSource
	notifier  Notifier
	interval  time.Duration
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweeper creates a Sweeper
func NewSweeper(schedules ScheduleSource, doses DoseSource, notifier Notifier, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		schedules: schedules,
		doses:     doses,
		notifier:  notifier,
		interval:  interval,
		logger:    logger,
	}
}

// Start launches the sweep loop in a background goroutine
func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep(ctx, time.Now())
			}
		}
	}()

	s.logger.Info("reminder sweeper started",
		zap.Duration("interval", s.interval),
	)
}

// Stop shuts down the sweep loop and waits for the current sweep to finish
func (s *Sweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("reminder sweeper stopped")
}

// Sweep checks every active schedule and sends reminders whose trigger
// time falls within (now - interval, now]. Returns the number of
// reminders sent.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) int {
	startTime := time.Now()

	schedules, err := s.schedules.ListActiveWithReminders(ctx)
	if err != nil {
		s.logger.Error("failed to list schedules for reminder sweep", zap.Error(err))
		return 0
	}

	sent := 0
	for _, schedule := range schedules {
		sent += s.sweepSchedule(ctx, schedule, now)
	}

	s.logger.Info("reminder sweep completed",
		zap.Int("schedules_checked", len(schedules)),
		zap.Int("reminders_sent", sent),
		zap.Duration("sweep_duration", time.Since(startTime)),
	)

	return sent
}

func (s *Sweeper) sweepSchedule(ctx context.Context, schedule model.ScheduleConfig, now time.Time) int {
	if !schedule.Reminders.Enabled {
		return 0
	}

	latest, err := s.doses.FindLatestByUserID(ctx, schedule.UserID)
	if err != nil {
		s.logger.Error("failed to load latest dose for reminder sweep",
			zap.Error(err),
			zap.String("user_id", schedule.UserID),
		)
		return 0
	}

	// Without dose history the next expected dose is the schedule start.
	// An undetermined frequency falls back to the weekly cadence inside
	// NextDueDate, so the returned date is always usable.
	var nextDue time.Time
	if latest != nil {
		nextDue, _ = dosing.NextDueDate(latest.Date, schedule.Frequency, schedule.CustomInterval)
	} else {
		nextDue = schedule.StartDate
	}

	sent := 0

	// Pre-dose reminders fire ahead of the due time.
	for _, h := range schedule.Reminders.PreDoseHours {
		triggerAt := nextDue.Add(-time.Duration(h) * time.Hour)
		if !s.inWindow(triggerAt, now) {
			continue
		}
		sent += s.send(ctx, Notification{
			UserID:     schedule.UserID,
			ScheduleID: schedule.ID,
			Kind:       KindPreDose,
			DueAt:      nextDue,
			Message:    fmt.Sprintf("Your next %s dose is due %s", schedule.Medication, dosing.FormatCountdown(nextDue.Sub(now).Hours())),
		})
	}

	// Post-dose prompts fire after the most recent injection.
	if latest != nil {
		for _, h := range schedule.Reminders.PostDoseHours {
			triggerAt := latest.Date.Add(time.Duration(h) * time.Hour)
			if !s.inWindow(triggerAt, now) {
				continue
			}
			sent += s.send(ctx, Notification{
				UserID:     schedule.UserID,
				ScheduleID: schedule.ID,
				Kind:       KindPostDose,
				DueAt:      nextDue,
				Message:    "How are you feeling? Log any side effects from your recent dose",
			})
		}
	}

	// Missed-dose escalations fire after a due time passes without a dose.
	doseTakenSinceDue := latest != nil && !latest.Date.Before(nextDue)
	if !doseTakenSinceDue {
		for _, h := range schedule.Reminders.MissedDoseHours {
			triggerAt := nextDue.Add(time.Duration(h) * time.Hour)
			if !s.inWindow(triggerAt, now) {
				continue
			}
			sent += s.send(ctx, Notification{
				UserID:     schedule.UserID,
				ScheduleID: schedule.ID,
				Kind:       KindMissedDose,
				DueAt:      nextDue,
				Message:    fmt.Sprintf("Your %s dose is overdue. %s", schedule.Medication, dosing.FormatCountdown(nextDue.Sub(now).Hours())),
			})
		}
	}

	return sent
}

// inWindow reports whether triggerAt falls inside the window covered by
// the sweep ending at now.
func (s *Sweeper) inWindow(triggerAt, now time.Time) bool {
	return triggerAt.After(now.Add(-s.interval)) && !triggerAt.After(now)
}

func (s *Sweeper) send(ctx context.Context, n Notification) int {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Error("failed to deliver reminder",
			zap.Error(err),
			zap.String("user_id", n.UserID),
			zap.String("kind", string(n.Kind)),
		)
		return 0
	}
	return 1
}
