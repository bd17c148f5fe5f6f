package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/semaglide/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockScheduleSource struct {
	mock.Mock
}

func (m *MockScheduleSource) ListActiveWithReminders(ctx context.Context) ([]model.ScheduleConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScheduleConfig), args.Error(1)
}

type MockDoseSource struct {
	mock.Mock
}

func (m *MockDoseSource) FindLatestByUserID(ctx context.Context, userID string) (*model.DoseEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DoseEvent), args.Error(1)
}

// recordingNotifier captures notifications for assertions
type recordingNotifier struct {
	sent []Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, n Notification) error {
	r.sent = append(r.sent, n)
	return nil
}

func remindersEnabledSchedule(userID string) model.ScheduleConfig {
	return model.ScheduleConfig{
		ID:         "schedule-1",
		UserID:     userID,
		Medication: model.MedicationOzempic,
		Dosage:     model.Dosage025,
		Frequency:  model.FrequencyWeekly,
		TimeZone:   "UTC",
		Active:     true,
		StartDate:  time.Now().AddDate(0, 0, -30),
		Reminders:  model.DefaultReminderSettings(),
	}
}

func newTestSweeper(schedules *MockScheduleSource, doses *MockDoseSource, notifier Notifier) *Sweeper {
	return NewSweeper(schedules, doses, notifier, 15*time.Minute, zap.NewNop())
}

func TestSweeper_PreDoseReminderFires(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleSource)
	mockDoses := new(MockDoseSource)
	notifier := &recordingNotifier{}
	sweeper := newTestSweeper(mockSchedules, mockDoses, notifier)

	now := time.Now()
	userID := "user-1"
	schedule := remindersEnabledSchedule(userID)

	// Next dose due in 2 hours, matching the 2 hour pre-dose offset.
	lastDose := &model.DoseEvent{
		ID:     "dose-1",
		UserID: userID,
		Date:   now.Add(-7*24*time.Hour + 2*time.Hour),
	}

	mockSchedules.On("ListActiveWithReminders", mock.Anything).Return([]model.ScheduleConfig{schedule}, nil)
	mockDoses.On("FindLatestByUserID", mock.Anything, userID).Return(lastDose, nil)

	// Act
	sent := sweeper.Sweep(context.Background(), now)

	// Assert
	assert.Equal(t, 1, sent)
	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, KindPreDose, notifier.sent[0].Kind)
	assert.Equal(t, userID, notifier.sent[0].UserID)
	assert.Contains(t, notifier.sent[0].Message, "Ozempic")
	mockSchedules.AssertExpectations(t)
	mockDoses.AssertExpectations(t)
}

func TestSweeper_MissedDoseEscalation(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleSource)
	mockDoses := new(MockDoseSource)
	notifier := &recordingNotifier{}
	sweeper := newTestSweeper(mockSchedules, mockDoses, notifier)

	now := time.Now()
	userID := "user-2"
	schedule := remindersEnabledSchedule(userID)

	// Dose was due 24 hours ago and never taken, matching the first
	// missed-dose escalation offset.
	lastDose := &model.DoseEvent{
		ID:     "dose-1",
		UserID: userID,
		Date:   now.Add(-8 * 24 * time.Hour),
	}

	mockSchedules.On("ListActiveWithReminders", mock.Anything).Return([]model.ScheduleConfig{schedule}, nil)
	mockDoses.On("FindLatestByUserID", mock.Anything, userID).Return(lastDose, nil)

	// Act
	sent := sweeper.Sweep(context.Background(), now)

	// Assert
	assert.Equal(t, 1, sent)
	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, KindMissedDose, notifier.sent[0].Kind)
	assert.Contains(t, notifier.sent[0].Message, "overdue")
}

func TestSweeper_PostDosePromptAfterInjection(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleSource)
	mockDoses := new(MockDoseSource)
	notifier := &recordingNotifier{}
	sweeper := newTestSweeper(mockSchedules, mockDoses, notifier)

	now := time.Now()
	userID := "user-3"
	schedule := remindersEnabledSchedule(userID)

	// Dose taken 2 hours ago, matching the post-dose prompt offset.
	lastDose := &model.DoseEvent{
		ID:     "dose-1",
		UserID: userID,
		Date:   now.Add(-2 * time.Hour),
	}

	mockSchedules.On("ListActiveWithReminders", mock.Anything).Return([]model.ScheduleConfig{schedule}, nil)
	mockDoses.On("FindLatestByUserID", mock.Anything, userID).Return(lastDose, nil)

	// Act
	sent := sweeper.Sweep(context.Background(), now)

	// Assert
	assert.Equal(t, 1, sent)
	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, KindPostDose, notifier.sent[0].Kind)
}

func TestSweeper_DisabledRemindersSkipped(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleSource)
	mockDoses := new(MockDoseSource)
	notifier := &recordingNotifier{}
	sweeper := newTestSweeper(mockSchedules, mockDoses, notifier)

	schedule := remindersEnabledSchedule("user-4")
	schedule.Reminders.Enabled = false

	mockSchedules.On("ListActiveWithReminders", mock.Anything).Return([]model.ScheduleConfig{schedule}, nil)

	// Act
	sent := sweeper.Sweep(context.Background(), time.Now())

	// Assert
	assert.Equal(t, 0, sent)
	assert.Empty(t, notifier.sent)
	mockDoses.AssertNotCalled(t, "FindLatestByUserID", mock.Anything, mock.Anything)
}

func TestSweeper_NoDoseHistoryUsesScheduleStart(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleSource)
	mockDoses := new(MockDoseSource)
	notifier := &recordingNotifier{}
	sweeper := newTestSweeper(mockSchedules, mockDoses, notifier)

	now := time.Now()
	userID := "user-5"
	schedule := remindersEnabledSchedule(userID)
	// First ever dose due in 2 hours.
	schedule.StartDate = now.Add(2 * time.Hour)

	mockSchedules.On("ListActiveWithReminders", mock.Anything).Return([]model.ScheduleConfig{schedule}, nil)
	mockDoses.On("FindLatestByUserID", mock.Anything, userID).Return(nil, nil)

	// Act
	sent := sweeper.Sweep(context.Background(), now)

	// Assert
	assert.Equal(t, 1, sent)
	assert.Len(t, notifier.sent, 1)
	assert.Equal(t, KindPreDose, notifier.sent[0].Kind)
}

func TestSweeper_NothingDueOutsideWindow(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleSource)
	mockDoses := new(MockDoseSource)
	notifier := &recordingNotifier{}
	sweeper := newTestSweeper(mockSchedules, mockDoses, notifier)

	now := time.Now()
	userID := "user-6"
	schedule := remindersEnabledSchedule(userID)

	// Dose taken 3 days ago, next due in 4 days. No trigger is near.
	lastDose := &model.DoseEvent{
		ID:     "dose-1",
		UserID: userID,
		Date:   now.Add(-3 * 24 * time.Hour),
	}

	mockSchedules.On("ListActiveWithReminders", mock.Anything).Return([]model.ScheduleConfig{schedule}, nil)
	mockDoses.On("FindLatestByUserID", mock.Anything, userID).Return(lastDose, nil)

	// Act
	sent := sweeper.Sweep(context.Background(), now)

	// Assert
	assert.Equal(t, 0, sent)
	assert.Empty(t, notifier.sent)
}
