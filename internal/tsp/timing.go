package tsp

import "time"

// Measure runs fn and reports its wall-clock duration.
func Measure[T any](fn func() T) (T, time.Duration) {
	started := time.Now()
	result := fn()
	return result, time.Since(started)
}
