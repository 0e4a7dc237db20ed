package age

import "time"

// AgeData computes the time elapsed since then and whether then is set.
// Timestamps in the future clamp to zero.
func AgeData(then time.Time, now time.Time) (time.Duration, bool) {
	if then.IsZero() {
		return 0, false
	}
	if now.Before(then) {
		return 0, true
	}
	return now.Sub(then), true
}
