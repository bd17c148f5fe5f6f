package model

import "time"

// Medication identifies a supported GLP-1 compound
type Medication string

const (
	MedicationOzempic              Medication = "Ozempic®"
	MedicationWegovy               Medication = "Wegovy®"
	MedicationMounjaro             Medication = "Mounjaro®"
	MedicationZepbound             Medication = "Zepbound®"
	MedicationTrulicity            Medication = "Trulicity®"
	MedicationCompoundedSema       Medication = "Compounded Semaglutide"
	MedicationCompoundedTirzepatid Medication = "Compounded Tirzepatide"
)

// Medications lists every supported compound
var Medications = []Medication{
	MedicationOzempic,
	MedicationWegovy,
	MedicationMounjaro,
	MedicationZepbound,
	MedicationTrulicity,
	MedicationCompoundedSema,
	MedicationCompoundedTirzepatid,
}

// Valid reports whether m is a supported compound
func (m Medication) Valid() bool {
	for _, known := range Medications {
		if m == known {
			return true
		}
	}
	return false
}

// Dosage is a supported pen strength
type Dosage string

const (
	Dosage025 Dosage = "0.25mg"
	Dosage05  Dosage = "0.5mg"
	Dosage07  Dosage = "0.7mg"
	Dosage10  Dosage = "1.0mg"
	Dosage15  Dosage = "1.5mg"
	Dosage17  Dosage = "1.7mg"
	Dosage20  Dosage = "2.0mg"
	Dosage24  Dosage = "2.4mg"
)

// Dosages lists every supported strength
var Dosages = []Dosage{Dosage025, Dosage05, Dosage07, Dosage10, Dosage15, Dosage17, Dosage20, Dosage24}

// Valid reports whether d is a supported strength
func (d Dosage) Valid() bool {
	for _, known := range Dosages {
		if d == known {
			return true
		}
	}
	return false
}

// Frequency is a dosing cadence
type Frequency string

const (
	FrequencyDaily        Frequency = "Every day"
	FrequencyWeekly       Frequency = "Every 7 days (most common)"
	FrequencyBiweekly     Frequency = "Every 14 days"
	FrequencyCustom       Frequency = "Custom"
	FrequencyUndetermined Frequency = "Not sure, still figuring it out"
)

// InjectionSite is a body location for an injection
type InjectionSite string

const (
	SiteLeftThigh    InjectionSite = "Left Thigh"
	SiteRightThigh   InjectionSite = "Right Thigh"
	SiteLeftAbdomen  InjectionSite = "Left Abdomen"
	SiteRightAbdomen InjectionSite = "Right Abdomen"
	SiteLeftArm      InjectionSite = "Left Arm"
	SiteRightArm     InjectionSite = "Right Arm"
	SiteLeftButtock  InjectionSite = "Left Buttock"
	SiteRightButtock InjectionSite = "Right Buttock"
)

// InjectionSites lists every site accepted on a dose event
var InjectionSites = []InjectionSite{
	SiteLeftThigh, SiteRightThigh,
	SiteLeftAbdomen, SiteRightAbdomen,
	SiteLeftArm, SiteRightArm,
	SiteLeftButtock, SiteRightButtock,
}

// Valid reports whether s is a known injection site
func (s InjectionSite) Valid() bool {
	for _, known := range InjectionSites {
		if s == known {
			return true
		}
	}
	return false
}

// LevelStatus classifies an estimated medication level
type LevelStatus string

const (
	LevelOptimal   LevelStatus = "optimal"
	LevelDeclining LevelStatus = "declining"
	LevelLow       LevelStatus = "low"
	LevelOverdue   LevelStatus = "overdue"
)

// CalendarStatus marks an expected dose date on the schedule calendar
type CalendarStatus string

const (
	CalendarTaken     CalendarStatus = "taken"
	CalendarOverdue   CalendarStatus = "overdue"
	CalendarScheduled CalendarStatus = "scheduled"
)

// DosageRecommendation is the weekly checkup outcome
type DosageRecommendation string

const (
	RecommendContinue      DosageRecommendation = "continueCurrent"
	RecommendIncrease      DosageRecommendation = "increaseDose"
	RecommendDecrease      DosageRecommendation = "decreaseDose"
	RecommendPause         DosageRecommendation = "pauseTreatment"
	RecommendConsultDoctor DosageRecommendation = "consultDoctor"
)

// Valid reports whether r is a known recommendation
func (r DosageRecommendation) Valid() bool {
	switch r {
	case RecommendContinue, RecommendIncrease, RecommendDecrease, RecommendPause, RecommendConsultDoctor:
		return true
	}
	return false
}

// ConfidenceLevel grades a checkup recommendation's confidence
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// Valid reports whether c is a known confidence level
func (c ConfidenceLevel) Valid() bool {
	return c == ConfidenceLow || c == ConfidenceMedium || c == ConfidenceHigh
}

// AdjustmentReason categorizes a schedule change
type AdjustmentReason string

const (
	AdjustmentDoseChange       AdjustmentReason = "dose_change"
	AdjustmentFrequencyChange  AdjustmentReason = "frequency_change"
	AdjustmentMedicationChange AdjustmentReason = "medication_change"
	AdjustmentManual           AdjustmentReason = "manual_adjustment"
)

// Valid reports whether r is a known adjustment reason
func (r AdjustmentReason) Valid() bool {
	switch r {
	case AdjustmentDoseChange, AdjustmentFrequencyChange, AdjustmentMedicationChange, AdjustmentManual:
		return true
	}
	return false
}

// DoseEvent is one administered injection
type DoseEvent struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id"`
	Date          time.Time     `json:"date"`
	Medication    Medication    `json:"medication"`
	Dosage        Dosage        `json:"dosage"`
	InjectionSite InjectionSite `json:"injection_site"`
	PainLevel     int           `json:"pain_level"`
	SideEffects   []string      `json:"side_effects,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
	NextDueDate   time.Time     `json:"next_due_date"`
	PhotoPath     *string       `json:"photo_path,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// ReminderSettings configures dose reminders on a schedule
type ReminderSettings struct {
	Enabled           bool  `json:"enabled"`
	PreDoseHours      []int `json:"pre_dose_hours"`
	PostDoseHours     []int `json:"post_dose_hours"`
	MissedDoseHours   []int `json:"missed_dose_hours"`
	EscalationEnabled bool  `json:"escalation_enabled"`
}

// DefaultReminderSettings returns the reminder configuration applied
// when a schedule is created without explicit settings
func DefaultReminderSettings() ReminderSettings {
	return ReminderSettings{
		Enabled:         true,
		PreDoseHours:    []int{24, 2},
		PostDoseHours:   []int{2},
		MissedDoseHours: []int{24, 72},
	}
}

// AdherenceSummary is the derived adherence state stored on a schedule.
// It is recomputed from dose history on demand and is never the source
// of truth between recalculations.
type AdherenceSummary struct {
	TotalScheduledDoses int       `json:"total_scheduled_doses"`
	TotalTakenDoses     int       `json:"total_taken_doses"`
	TotalMissedDoses    int       `json:"total_missed_doses"`
	CurrentStreak       int       `json:"current_streak"`
	LongestStreak       int       `json:"longest_streak"`
	AdherencePercentage int       `json:"adherence_percentage"`
	LastCalculated      time.Time `json:"last_calculated"`
}

// ScheduleAdjustment is one append-only schedule change record
type ScheduleAdjustment struct {
	ID         string            `json:"id"`
	ScheduleID string            `json:"schedule_id"`
	Date       time.Time         `json:"date"`
	Reason     AdjustmentReason  `json:"reason"`
	OldValue   map[string]string `json:"old_value"`
	NewValue   map[string]string `json:"new_value"`
	Notes      *string           `json:"notes,omitempty"`
}

// ScheduleConfig is a user's dosing configuration. At most one schedule
// per user is active at a time; the repository enforces the invariant.
type ScheduleConfig struct {
	ID             string               `json:"id"`
	UserID         string               `json:"user_id"`
	Medication     Medication           `json:"medication"`
	Dosage         Dosage               `json:"dosage"`
	Frequency      Frequency            `json:"frequency"`
	CustomInterval *int                 `json:"custom_interval,omitempty"`
	PreferredTime  *string              `json:"preferred_time,omitempty"`
	SpecificTime   *string              `json:"specific_time,omitempty"`
	TimeZone       string               `json:"time_zone"`
	Active         bool                 `json:"active"`
	StartDate      time.Time            `json:"start_date"`
	EndDate        *time.Time           `json:"end_date,omitempty"`
	Reminders      ReminderSettings     `json:"reminders"`
	Adherence      AdherenceSummary     `json:"adherence"`
	Adjustments    []ScheduleAdjustment `json:"adjustments,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// MedicationLevelSnapshot is an immutable point-in-time estimate of
// medication concentration. Snapshots are append-only.
type MedicationLevelSnapshot struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"user_id"`
	Date               time.Time   `json:"date"`
	Medication         Medication  `json:"medication"`
	Dosage             Dosage      `json:"dosage"`
	CalculatedLevel    float64     `json:"calculated_level"`
	PercentageOfPeak   float64     `json:"percentage_of_peak"`
	DoseEventID        *string     `json:"dose_event_id,omitempty"`
	DaysSinceLastDose  float64     `json:"days_since_last_dose"`
	HoursSinceLastDose float64     `json:"hours_since_last_dose"`
	NextDueDate        *time.Time  `json:"next_due_date,omitempty"`
	Status             LevelStatus `json:"status"`
	CreatedAt          time.Time   `json:"created_at"`
}

// ConfidenceFactors carries the probability structure attached to a
// checkup recommendation. The combination itself is supplied by the
// caller; the backend validates ranges and persists it.
type ConfidenceFactors struct {
	PriorProbability     float64            `json:"prior_probability"`
	Likelihood           float64            `json:"likelihood"`
	PosteriorProbability float64            `json:"posterior_probability"`
	IndividualFactors    map[string]float64 `json:"individual_factors,omitempty"`
	ConfidenceLevel      ConfidenceLevel    `json:"confidence_level"`
}

// WeeklyCheckupRecord is one weekly checkup entry
type WeeklyCheckupRecord struct {
	ID                   string               `json:"id"`
	UserID               string               `json:"user_id"`
	Date                 time.Time            `json:"date"`
	CurrentWeight        float64              `json:"current_weight"`
	WeightUnit           string               `json:"weight_unit"`
	WeightChange         *float64             `json:"weight_change,omitempty"`
	WeightChangePercent  *float64             `json:"weight_change_percent,omitempty"`
	SideEffects          []string             `json:"side_effects,omitempty"`
	OverallSeverity      int                  `json:"overall_severity"`
	Recommendation       DosageRecommendation `json:"recommendation"`
	RecommendationReason string               `json:"recommendation_reason"`
	Confidence           ConfidenceFactors    `json:"confidence"`
	Notes                *string              `json:"notes,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

// WeightEntry is one logged weight measurement
type WeightEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	Weight    float64   `json:"weight"`
	Unit      string    `json:"unit"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MealType categorizes a logged meal
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// Valid reports whether the meal type is one of the known categories
func (m MealType) Valid() bool {
	switch m {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

// FoodItem is one food within a logged meal
type FoodItem struct {
	Name     string   `json:"name"`
	Portion  string   `json:"portion"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber,omitempty"`
}

// MealLog is one logged meal. The macro totals are derived from the
// individual foods when the meal is recorded.
type MealLog struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Date          time.Time  `json:"date"`
	MealType      MealType   `json:"meal_type"`
	Foods         []FoodItem `json:"foods"`
	TotalCalories float64    `json:"total_calories"`
	TotalProtein  float64    `json:"total_protein"`
	TotalCarbs    float64    `json:"total_carbs"`
	TotalFat      float64    `json:"total_fat"`
	TotalFiber    float64    `json:"total_fiber"`
	Notes         *string    `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// WorkoutType names a kind of workout session
type WorkoutType string

const (
	WorkoutCardio    WorkoutType = "Cardio"
	WorkoutStrength  WorkoutType = "Strength Training"
	WorkoutYoga      WorkoutType = "Yoga"
	WorkoutSwimming  WorkoutType = "Swimming"
	WorkoutCycling   WorkoutType = "Cycling"
	WorkoutRunning   WorkoutType = "Running"
	WorkoutWalking   WorkoutType = "Walking"
	WorkoutHIIT      WorkoutType = "HIIT"
	WorkoutPilates   WorkoutType = "Pilates"
	WorkoutSports    WorkoutType = "Sports"
	WorkoutOtherType WorkoutType = "Other"
)

// WorkoutTypes lists every known workout kind
var WorkoutTypes = []WorkoutType{
	WorkoutCardio,
	WorkoutStrength,
	WorkoutYoga,
	WorkoutSwimming,
	WorkoutCycling,
	WorkoutRunning,
	WorkoutWalking,
	WorkoutHIIT,
	WorkoutPilates,
	WorkoutSports,
	WorkoutOtherType,
}

// Valid reports whether the workout type is a known kind
func (w WorkoutType) Valid() bool {
	for _, known := range WorkoutTypes {
		if w == known {
			return true
		}
	}
	return false
}

// WorkoutLog is one logged workout session
type WorkoutLog struct {
	ID              string      `json:"id"`
	UserID          string      `json:"user_id"`
	Date            time.Time   `json:"date"`
	Type            WorkoutType `json:"type"`
	DurationMinutes int         `json:"duration_minutes"`
	Intensity       int         `json:"intensity"`
	CaloriesBurned  float64     `json:"calories_burned"`
	Notes           *string     `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// Report is a generated progress report stored in blob storage
type Report struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	DateRangeStart time.Time `json:"date_range_start"`
	DateRangeEnd   time.Time `json:"date_range_end"`
	FilePath       string    `json:"file_path"`
	GeneratedAt    time.Time `json:"generated_at"`
	CreatedAt      time.Time `json:"created_at"`
}
