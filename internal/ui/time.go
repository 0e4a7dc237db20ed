package ui

import (
	"fmt"
	"time"

	internalage "github.com/amonks/ticklist/internal/age"
)

// Age renders the time elapsed since then in its largest whole unit, as in
// "45s", "2m", "3h" or "5d". An unset time renders as "-".
func Age(then, now time.Time) string {
	elapsed, ok := internalage.AgeData(then, now)
	if !ok {
		return "-"
	}
	return shortDuration(elapsed)
}

// Ago is Age followed by " ago".
func Ago(then, now time.Time) string {
	age := Age(then, now)
	if age == "-" {
		return age
	}
	return age + " ago"
}

var durationUnits = []struct {
	size   time.Duration
	suffix string
}{
	{24 * time.Hour, "d"},
	{time.Hour, "h"},
	{time.Minute, "m"},
}

func shortDuration(d time.Duration) string {
	d = max(d, 0)
	for _, unit := range durationUnits {
		if d >= unit.size {
			return fmt.Sprintf("%d%s", d/unit.size, unit.suffix)
		}
	}
	return fmt.Sprintf("%ds", d/time.Second)
}
