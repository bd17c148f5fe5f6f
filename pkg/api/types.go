// Package api defines the request and response types of the REST API.
package api

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// ErrorResponse is the standard error envelope for all endpoints.
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// LogDoseRequest defines model for LogDoseRequest.
type LogDoseRequest struct {
	UserId        types.UUID `json:"user_id" binding:"required"`
	Date          *time.Time `json:"date,omitempty"`
	Medication    string     `json:"medication" binding:"required"`
	Dosage        string     `json:"dosage" binding:"required"`
	InjectionSite string     `json:"injection_site" binding:"required"`
	PainLevel     int        `json:"pain_level"`
	SideEffects   *[]string  `json:"side_effects,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// UpdateDoseRequest defines model for UpdateDoseRequest.
type UpdateDoseRequest struct {
	Date          *time.Time `json:"date,omitempty"`
	Medication    string     `json:"medication" binding:"required"`
	Dosage        string     `json:"dosage" binding:"required"`
	InjectionSite string     `json:"injection_site" binding:"required"`
	PainLevel     int        `json:"pain_level"`
	SideEffects   *[]string  `json:"side_effects,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}

// CalculateLevelRequest defines model for CalculateLevelRequest.
type CalculateLevelRequest struct {
	Medication     string     `json:"medication" binding:"required"`
	Frequency      string     `json:"frequency" binding:"required"`
	CustomInterval *int       `json:"custom_interval,omitempty"`
	LastDoseDate   time.Time  `json:"last_dose_date" binding:"required"`
	At             *time.Time `json:"at,omitempty"`
}

// UpsertScheduleRequest defines model for UpsertScheduleRequest.
type UpsertScheduleRequest struct {
	UserId         types.UUID        `json:"user_id" binding:"required"`
	Medication     string            `json:"medication" binding:"required"`
	Dosage         string            `json:"dosage" binding:"required"`
	Frequency      string            `json:"frequency" binding:"required"`
	CustomInterval *int              `json:"custom_interval,omitempty"`
	PreferredTime  *string           `json:"preferred_time,omitempty"`
	SpecificTime   *string           `json:"specific_time,omitempty"`
	TimeZone       *string           `json:"time_zone,omitempty"`
	StartDate      types.Date        `json:"start_date" binding:"required"`
	EndDate        *types.Date       `json:"end_date,omitempty"`
	Reminders      *ReminderSettings `json:"reminders,omitempty"`
}

// ReminderSettings defines model for ReminderSettings.
type ReminderSettings struct {
	Enabled           bool  `json:"enabled"`
	PreDoseHours      []int `json:"pre_dose_hours,omitempty"`
	PostDoseHours     []int `json:"post_dose_hours,omitempty"`
	MissedDoseHours   []int `json:"missed_dose_hours,omitempty"`
	EscalationEnabled bool  `json:"escalation_enabled"`
}

// RecordCheckupRequest defines model for RecordCheckupRequest.
type RecordCheckupRequest struct {
	UserId               types.UUID        `json:"user_id" binding:"required"`
	Date                 *time.Time        `json:"date,omitempty"`
	CurrentWeight        float64           `json:"current_weight" binding:"required"`
	WeightUnit           string            `json:"weight_unit" binding:"required"`
	SideEffects          *[]string         `json:"side_effects,omitempty"`
	OverallSeverity      int               `json:"overall_severity"`
	Recommendation       string            `json:"recommendation" binding:"required"`
	RecommendationReason string            `json:"recommendation_reason"`
	Confidence           ConfidenceFactors `json:"confidence" binding:"required"`
	Notes                *string           `json:"notes,omitempty"`
}

// ConfidenceFactors defines model for ConfidenceFactors.
type ConfidenceFactors struct {
	PriorProbability     float64             `json:"prior_probability"`
	Likelihood           float64             `json:"likelihood"`
	PosteriorProbability float64             `json:"posterior_probability"`
	IndividualFactors    *map[string]float64 `json:"individual_factors,omitempty"`
	ConfidenceLevel      string              `json:"confidence_level" binding:"required"`
}

// LogWeightRequest defines model for LogWeightRequest.
type LogWeightRequest struct {
	UserId types.UUID `json:"user_id" binding:"required"`
	Date   *time.Time `json:"date,omitempty"`
	Weight float64    `json:"weight" binding:"required"`
	Unit   string     `json:"unit" binding:"required"`
	Notes  *string    `json:"notes,omitempty"`
}

// FoodInput defines model for FoodInput.
type FoodInput struct {
	Name     string   `json:"name" binding:"required"`
	Portion  string   `json:"portion" binding:"required"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber,omitempty"`
}

// LogMealRequest defines model for LogMealRequest.
type LogMealRequest struct {
	UserId   types.UUID  `json:"user_id" binding:"required"`
	Date     *time.Time  `json:"date,omitempty"`
	MealType string      `json:"meal_type" binding:"required"`
	Foods    []FoodInput `json:"foods" binding:"required"`
	Notes    *string     `json:"notes,omitempty"`
}

// LogWorkoutRequest defines model for LogWorkoutRequest.
type LogWorkoutRequest struct {
	UserId          types.UUID `json:"user_id" binding:"required"`
	Date            *time.Time `json:"date,omitempty"`
	Type            string     `json:"type" binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"required"`
	Intensity       int        `json:"intensity" binding:"required"`
	CaloriesBurned  float64    `json:"calories_burned"`
	Notes           *string    `json:"notes,omitempty"`
}

// GenerateReportRequest defines model for GenerateReportRequest.
type GenerateReportRequest struct {
	UserId    types.UUID `json:"user_id" binding:"required"`
	UserName  *string    `json:"user_name,omitempty"`
	StartDate types.Date `json:"start_date" binding:"required"`
	EndDate   types.Date `json:"end_date" binding:"required"`
}
