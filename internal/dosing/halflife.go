package dosing

import "github.com/semaglide/backend/pkg/model"

// DefaultHalfLifeHours is used when the medication is not recognized
const DefaultHalfLifeHours = 168.0

// medicationHalfLives maps each supported compound to its elimination
// half-life in hours. Semaglutide compounds are around 7 days,
// tirzepatide and dulaglutide around 5 days.
var medicationHalfLives = map[model.Medication]float64{
	model.MedicationOzempic:              168,
	model.MedicationWegovy:               168,
	model.MedicationCompoundedSema:       168,
	model.MedicationMounjaro:             120,
	model.MedicationZepbound:             120,
	model.MedicationCompoundedTirzepatid: 120,
	model.MedicationTrulicity:            120,
}

// HalfLifeHours returns the elimination half-life for a medication in
// hours, falling back to DefaultHalfLifeHours for unknown compounds.
func HalfLifeHours(medication model.Medication) float64 {
	if hl, ok := medicationHalfLives[medication]; ok {
		return hl
	}
	return DefaultHalfLifeHours
}
