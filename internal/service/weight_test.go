package service

import (
	"context"
	"testing"
	"time"

	"github.com/semaglide/backend/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockWeightRepository is a mock implementation of WeightRepositoryInterface
type MockWeightRepository struct {
	mock.Mock
}

func (m *MockWeightRepository) Create(ctx context.Context, entry *model.WeightEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWeightRepository) FindByUserID(ctx context.Context, userID string, from, to time.Time) ([]model.WeightEntry, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WeightEntry), args.Error(1)
}

func (m *MockWeightRepository) FindEarliestByUserID(ctx context.Context, userID string) (*model.WeightEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WeightEntry), args.Error(1)
}

func (m *MockWeightRepository) Delete(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func TestWeightService_LogWeight_Success(t *testing.T) {
	// Arrange
	mockWeights := new(MockWeightRepository)
	logger := zap.NewNop()
	service := NewWeightService(mockWeights, logger)

	ctx := context.Background()
	userID := "test-user-id"
	entry := &model.WeightEntry{Weight: 84.2, Unit: "kg"}

	mockWeights.On("Create", ctx, entry).Return(nil)

	// Act
	err := service.LogWeight(ctx, userID, entry)

	// Assert
	assert.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, userID, entry.UserID)
	assert.False(t, entry.Date.IsZero())

	mockWeights.AssertExpectations(t)
}

func TestWeightService_LogWeight_ValidationErrors(t *testing.T) {
	mockWeights := new(MockWeightRepository)
	logger := zap.NewNop()
	service := NewWeightService(mockWeights, logger)

	ctx := context.Background()

	tests := []struct {
		name  string
		entry *model.WeightEntry
	}{
		{"weight too low", &model.WeightEntry{Weight: 5, Unit: "kg"}},
		{"weight too high", &model.WeightEntry{Weight: 501, Unit: "kg"}},
		{"unknown unit", &model.WeightEntry{Weight: 84.2, Unit: "stone"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.LogWeight(ctx, "test-user-id", tt.entry)

			assert.Error(t, err)
		})
	}

	mockWeights.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWeightService_Progress_Success(t *testing.T) {
	// Arrange
	mockWeights := new(MockWeightRepository)
	logger := zap.NewNop()
	service := NewWeightService(mockWeights, logger)

	ctx := context.Background()
	userID := "test-user-id"

	// entries come back newest first
	entries := []model.WeightEntry{
		{ID: "w-3", UserID: userID, Date: time.Now(), Weight: 82.0, Unit: "kg"},
		{ID: "w-2", UserID: userID, Date: time.Now().AddDate(0, 0, -14), Weight: 83.5, Unit: "kg"},
		{ID: "w-1", UserID: userID, Date: time.Now().AddDate(0, 0, -28), Weight: 85.0, Unit: "kg"},
	}

	mockWeights.On("FindByUserID", ctx, userID, time.Time{}, time.Time{}).Return(entries, nil)

	// Act
	progress, err := service.Progress(ctx, userID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, progress)
	assert.Equal(t, 3, progress.EntriesLogged)
	assert.Equal(t, "w-1", progress.Baseline.ID)
	assert.Equal(t, "w-3", progress.Latest.ID)
	assert.NotNil(t, progress.TotalChange)
	assert.InDelta(t, -3.0, *progress.TotalChange, 0.001)
	assert.NotNil(t, progress.PercentChange)
	assert.InDelta(t, -3.53, *progress.PercentChange, 0.001)

	mockWeights.AssertExpectations(t)
}

func TestWeightService_Progress_NoEntries(t *testing.T) {
	// Arrange
	mockWeights := new(MockWeightRepository)
	logger := zap.NewNop()
	service := NewWeightService(mockWeights, logger)

	ctx := context.Background()
	mockWeights.On("FindByUserID", ctx, "test-user-id", time.Time{}, time.Time{}).Return([]model.WeightEntry{}, nil)

	// Act
	progress, err := service.Progress(ctx, "test-user-id")

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 0, progress.EntriesLogged)
	assert.Nil(t, progress.Baseline)
	assert.Nil(t, progress.Latest)
	assert.Nil(t, progress.TotalChange)
}

func TestWeightService_Progress_MixedUnitsSkipsChange(t *testing.T) {
	// Arrange
	mockWeights := new(MockWeightRepository)
	logger := zap.NewNop()
	service := NewWeightService(mockWeights, logger)

	ctx := context.Background()
	userID := "test-user-id"

	entries := []model.WeightEntry{
		{ID: "w-2", UserID: userID, Date: time.Now(), Weight: 182.0, Unit: "lbs"},
		{ID: "w-1", UserID: userID, Date: time.Now().AddDate(0, 0, -14), Weight: 85.0, Unit: "kg"},
	}

	mockWeights.On("FindByUserID", ctx, userID, time.Time{}, time.Time{}).Return(entries, nil)

	// Act
	progress, err := service.Progress(ctx, userID)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, progress.Baseline)
	assert.NotNil(t, progress.Latest)
	assert.Nil(t, progress.TotalChange, "no change across mismatched units")
	assert.Nil(t, progress.PercentChange)
}
