package util

import "time"

// Clock returns the current instant; tests substitute a fixed one.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
