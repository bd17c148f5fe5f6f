package dosing

import (
	"fmt"
	"math"
)

// reminderWindowHours is how far ahead of a due dose reminders fire.
const reminderWindowHours = 24

// FormatCountdown renders hours until a due dose as a human readable
// countdown, for example "2d 5h" or "Overdue by 1d 3h".
func FormatCountdown(hoursUntilDue float64) string {
	abs := math.Abs(hoursUntilDue)
	days := int(abs / 24)
	hours := int(math.Mod(abs, 24))
	if hoursUntilDue < 0 {
		return fmt.Sprintf("Overdue by %dd %dh", days, hours)
	}
	return fmt.Sprintf("%dd %dh", days, hours)
}

// ShouldSendReminder reports whether a pre-dose reminder is warranted:
// the dose is still in the future but due within the reminder window.
func ShouldSendReminder(hoursUntilDue float64) bool {
	return hoursUntilDue > 0 && hoursUntilDue <= reminderWindowHours
}
