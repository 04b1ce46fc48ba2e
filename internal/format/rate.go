package format

import "time"

// maxETA caps the estimate so pathological rates do not render
// astronomically distant completion times.
const maxETA = 24 * time.Hour

// RateTracker estimates the executions-per-second rate of one worker from
// successive counter observations. A counter that moves backwards (worker
// restart) resets the baseline.
type RateTracker struct {
	startTime  time.Time
	startCount int64
	lastTime   time.Time
	lastCount  int64
	seeded     bool
}

// Observe records a counter reading taken at the given time.
//
// Parameters:
//   - count: The observed executions counter value.
//   - at: The time the observation was made.
func (r *RateTracker) Observe(count int64, at time.Time) {
	if !r.seeded || count < r.lastCount {
		r.startTime = at
		r.startCount = count
		r.seeded = true
	}
	r.lastTime = at
	r.lastCount = count
}

// Rate returns the average executions per second since the baseline
// observation, or 0 when fewer than two observations exist.
func (r *RateTracker) Rate() float64 {
	if !r.seeded {
		return 0
	}
	elapsed := r.lastTime.Sub(r.startTime).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(r.lastCount-r.startCount) / elapsed
}

// ETA estimates the remaining time until the counter reaches target,
// capped at maxETA. It returns 0 when no estimate is possible or the
// target has been reached.
//
// Parameters:
//   - target: The target counter value.
//
// Returns:
//   - time.Duration: The estimated remaining duration.
func (r *RateTracker) ETA(target int64) time.Duration {
	if !r.seeded || target <= r.lastCount {
		return 0
	}
	rate := r.Rate()
	if rate <= 0 {
		return 0
	}
	eta := time.Duration(float64(target-r.lastCount) / rate * float64(time.Second))
	if eta > maxETA {
		return maxETA
	}
	return eta
}
