package dosing

import (
	"math"
	"time"

	"github.com/semaglide/backend/pkg/model"
)

// ThresholdPolicy sets the level percentages separating the optimal,
// declining and low status bands.
type ThresholdPolicy struct {
	Optimal   float64
	Declining float64
}

// StandardThresholds is the default classification policy.
var StandardThresholds = ThresholdPolicy{Optimal: 60, Declining: 30}

// ConservativeThresholds flags declining levels earlier so users are
// nudged before the level drops far below steady state.
var ConservativeThresholds = ThresholdPolicy{Optimal: 80, Declining: 50}

// PolicyByName resolves a configured policy name, defaulting to
// StandardThresholds for unrecognized names.
func PolicyByName(name string) ThresholdPolicy {
	if name == "conservative" {
		return ConservativeThresholds
	}
	return StandardThresholds
}

// LevelAfter returns the estimated remaining medication level as a
// percentage of the post-injection peak, hoursSinceDose hours after a
// dose. The estimate follows first-order exponential decay and is
// clamped to [0, 100]. Negative elapsed time clamps to 100.
func LevelAfter(medication model.Medication, hoursSinceDose float64) float64 {
	halfLife := HalfLifeHours(medication)
	level := 100 * math.Pow(0.5, hoursSinceDose/halfLife)
	return math.Min(100, math.Max(0, level))
}

// LevelAt returns the estimated level at a point in time given the
// most recent dose time.
func LevelAt(medication model.Medication, lastDose, at time.Time) float64 {
	return LevelAfter(medication, at.Sub(lastDose).Hours())
}

// Classify maps an estimated level and the hours remaining until the
// next scheduled dose to a status. A negative hoursUntilNext means the
// dose is overdue regardless of the remaining level.
func (p ThresholdPolicy) Classify(level, hoursUntilNext float64) model.LevelStatus {
	if hoursUntilNext < 0 {
		return model.LevelOverdue
	}
	switch {
	case level >= p.Optimal:
		return model.LevelOptimal
	case level >= p.Declining:
		return model.LevelDeclining
	default:
		return model.LevelLow
	}
}
