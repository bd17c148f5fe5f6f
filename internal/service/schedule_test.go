package service

import (
	"context"
	"testing"
	"time"

	"github.com/semaglide/backend/internal/dosing"
	"github.com/semaglide/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockScheduleRepository is a mock implementation of ScheduleRepositoryInterface
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) CreateActive(ctx context.Context, sched *model.ScheduleConfig) error {
	args := m.Called(ctx, sched)
	return args.Error(0)
}

func (m *MockScheduleRepository) Update(ctx context.Context, sched *model.ScheduleConfig) error {
	args := m.Called(ctx, sched)
	return args.Error(0)
}

func (m *MockScheduleRepository) FindActiveByUserID(ctx context.Context, userID string) (*model.ScheduleConfig, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduleConfig), args.Error(1)
}

func (m *MockScheduleRepository) FindByID(ctx context.Context, scheduleID string) (*model.ScheduleConfig, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ScheduleConfig), args.Error(1)
}

func (m *MockScheduleRepository) SaveAdherence(ctx context.Context, scheduleID string, adherence model.AdherenceSummary) error {
	args := m.Called(ctx, scheduleID, adherence)
	return args.Error(0)
}

func (m *MockScheduleRepository) AppendAdjustment(ctx context.Context, adj *model.ScheduleAdjustment) error {
	args := m.Called(ctx, adj)
	return args.Error(0)
}

func (m *MockScheduleRepository) FindAdjustments(ctx context.Context, scheduleID string) ([]model.ScheduleAdjustment, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScheduleAdjustment), args.Error(1)
}

func newScheduleInput() *model.ScheduleConfig {
	return &model.ScheduleConfig{
		Medication: model.MedicationOzempic,
		Dosage:     model.Dosage05,
		Frequency:  model.FrequencyWeekly,
		StartDate:  time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestScheduleService_UpsertSchedule_CreatesWhenNoneActive(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleRepository)
	mockDoses := new(MockDoseRepository)
	logger := zap.NewNop()
	service := NewScheduleService(mockSchedules, mockDoses, dosing.StreakRelativeToNow, logger)

	ctx := context.Background()
	userID := "test-user-id"
	input := newScheduleInput()

	mockSchedules.On("FindActiveByUserID", ctx, userID).Return(nil, nil)
	mockSchedules.On("CreateActive", ctx, input).Return(nil)

	// Act
	created, err := service.UpsertSchedule(ctx, userID, input)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "UTC", created.TimeZone)
	assert.True(t, created.Reminders.Enabled, "default reminder settings should apply")
	assert.Equal(t, []int{24, 2}, created.Reminders.PreDoseHours)

	mockSchedules.AssertExpectations(t)
	mockSchedules.AssertNotCalled(t, "AppendAdjustment", mock.Anything, mock.Anything)
}

func TestScheduleService_UpsertSchedule_UpdateRecordsAdjustments(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleRepository)
	mockDoses := new(MockDoseRepository)
	logger := zap.NewNop()
	service := NewScheduleService(mockSchedules, mockDoses, dosing.StreakRelativeToNow, logger)

	ctx := context.Background()
	userID := "test-user-id"

	existing := newScheduleInput()
	existing.ID = "schedule-1"
	existing.UserID = userID
	existing.Active = true
	existing.CreatedAt = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	existing.Adherence = model.AdherenceSummary{AdherencePercentage: 90}

	update := newScheduleInput()
	update.Dosage = model.Dosage10
	update.Frequency = model.FrequencyBiweekly

	mockSchedules.On("FindActiveByUserID", ctx, userID).Return(existing, nil)
	mockSchedules.On("AppendAdjustment", ctx, mock.MatchedBy(func(adj *model.ScheduleAdjustment) bool {
		return adj.ScheduleID == "schedule-1" && adj.Reason == model.AdjustmentDoseChange &&
			adj.OldValue["dosage"] == string(model.Dosage05) &&
			adj.NewValue["dosage"] == string(model.Dosage10)
	})).Return(nil).Once()
	mockSchedules.On("AppendAdjustment", ctx, mock.MatchedBy(func(adj *model.ScheduleAdjustment) bool {
		return adj.Reason == model.AdjustmentFrequencyChange
	})).Return(nil).Once()
	mockSchedules.On("Update", ctx, update).Return(nil)

	// Act
	updated, err := service.UpsertSchedule(ctx, userID, update)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "schedule-1", updated.ID, "update must keep the schedule identity")
	assert.True(t, updated.Active)
	assert.Equal(t, existing.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 90, updated.Adherence.AdherencePercentage, "adherence cache survives the update")

	mockSchedules.AssertExpectations(t)
}

func TestScheduleService_UpsertSchedule_ValidationErrors(t *testing.T) {
	mockSchedules := new(MockScheduleRepository)
	mockDoses := new(MockDoseRepository)
	logger := zap.NewNop()
	service := NewScheduleService(mockSchedules, mockDoses, dosing.StreakRelativeToNow, logger)

	ctx := context.Background()
	badInterval := 0
	endBeforeStart := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*model.ScheduleConfig)
	}{
		{"unknown medication", func(s *model.ScheduleConfig) { s.Medication = "Insulin" }},
		{"unknown dosage", func(s *model.ScheduleConfig) { s.Dosage = "9.9mg" }},
		{"custom frequency without interval", func(s *model.ScheduleConfig) { s.Frequency = model.FrequencyCustom }},
		{"custom frequency with zero interval", func(s *model.ScheduleConfig) {
			s.Frequency = model.FrequencyCustom
			s.CustomInterval = &badInterval
		}},
		{"missing start date", func(s *model.ScheduleConfig) { s.StartDate = time.Time{} }},
		{"end date before start date", func(s *model.ScheduleConfig) { s.EndDate = &endBeforeStart }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := newScheduleInput()
			tt.mutate(input)

			_, err := service.UpsertSchedule(ctx, "test-user-id", input)

			assert.Error(t, err)
		})
	}

	mockSchedules.AssertNotCalled(t, "CreateActive", mock.Anything, mock.Anything)
	mockSchedules.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestScheduleService_GetSchedule_NoneActive(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleRepository)
	mockDoses := new(MockDoseRepository)
	logger := zap.NewNop()
	service := NewScheduleService(mockSchedules, mockDoses, dosing.StreakRelativeToNow, logger)

	ctx := context.Background()
	mockSchedules.On("FindActiveByUserID", ctx, "test-user-id").Return(nil, nil)

	// Act
	sched, err := service.GetSchedule(ctx, "test-user-id")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, sched)
}

func TestScheduleService_GetSchedule_AttachesAdjustments(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleRepository)
	mockDoses := new(MockDoseRepository)
	logger := zap.NewNop()
	service := NewScheduleService(mockSchedules, mockDoses, dosing.StreakRelativeToNow, logger)

	ctx := context.Background()
	userID := "test-user-id"

	existing := newScheduleInput()
	existing.ID = "schedule-1"
	existing.UserID = userID

	adjustments := []model.ScheduleAdjustment{
		{
			ID:         "adj-1",
			ScheduleID: "schedule-1",
			Reason:     model.AdjustmentDoseChange,
			OldValue:   map[string]string{"dosage": "0.25mg"},
			NewValue:   map[string]string{"dosage": "0.5mg"},
		},
	}

	mockSchedules.On("FindActiveByUserID", ctx, userID).Return(existing, nil)
	mockSchedules.On("FindAdjustments", ctx, "schedule-1").Return(adjustments, nil)

	// Act
	sched, err := service.GetSchedule(ctx, userID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, sched)
	assert.Len(t, sched.Adjustments, 1)
	assert.Equal(t, model.AdjustmentDoseChange, sched.Adjustments[0].Reason)

	mockSchedules.AssertExpectations(t)
}

func TestScheduleService_Adherence_NoActiveSchedule(t *testing.T) {
	mockSchedules := new(MockScheduleRepository)
	mockDoses := new(MockDoseRepository)
	logger := zap.NewNop()
	service := NewScheduleService(mockSchedules, mockDoses, dosing.StreakRelativeToNow, logger)

	ctx := context.Background()
	mockSchedules.On("FindActiveByUserID", ctx, "test-user-id").Return(nil, nil)

	_, err := service.Adherence(ctx, "test-user-id", time.Time{}, time.Time{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no active schedule")
}

func TestScheduleService_Adherence_PerfectWeeklyHistory(t *testing.T) {
	// Arrange
	mockSchedules := new(MockScheduleRepository)
	mockDoses := new(MockDoseRepository)
	logger := zap.NewNop()
	service := NewScheduleService(mockSchedules, mockDoses, dosing.StreakRelativeToNow, logger)

	ctx := context.Background()
	userID := "test-user-id"

	existing := newScheduleInput()
	existing.ID = "schedule-1"
	existing.UserID = userID
	existing.StartDate = time.Now().AddDate(0, 0, -27)

	var doses []model.DoseEvent
	for i := 0; i < 4; i++ {
		doses = append(doses, model.DoseEvent{
			ID:            "dose-" + string(rune('a'+i)),
			UserID:        userID,
			Date:          existing.StartDate.AddDate(0, 0, 7*i),
			Medication:    model.MedicationOzempic,
			Dosage:        model.Dosage05,
			InjectionSite: model.SiteLeftThigh,
		})
	}

	mockSchedules.On("FindActiveByUserID", ctx, userID).Return(existing, nil)
	mockDoses.On("FindByUserID", ctx, userID, mock.Anything, mock.Anything, 0).Return(doses, nil)
	mockSchedules.On("SaveAdherence", ctx, "schedule-1", mock.Anything).Return(nil)

	// Act
	report, err := service.Adherence(ctx, userID, time.Time{}, time.Time{})

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, report)
	assert.Equal(t, report.Summary.TotalTakenDoses, report.Summary.TotalScheduledDoses)
	assert.Equal(t, 100, report.Summary.AdherencePercentage)
	assert.Zero(t, report.Summary.TotalMissedDoses)

	mockSchedules.AssertExpectations(t)
}

func TestScheduleService_Calendar_InvalidMonth(t *testing.T) {
	mockSchedules := new(MockScheduleRepository)
	mockDoses := new(MockDoseRepository)
	logger := zap.NewNop()
	service := NewScheduleService(mockSchedules, mockDoses, dosing.StreakRelativeToNow, logger)

	_, err := service.Calendar(context.Background(), "test-user-id", 2024, time.Month(13))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid month")
}
