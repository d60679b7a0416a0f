// ABOUTME: Rate estimator models feed publications as a Poisson process
// ABOUTME: Pure function from publish history and prior rate to the next poll time

package estimator

import (
	"math"
	"sort"
	"time"

	"feedpulse-api/pkg/config"
)

// Estimate computes the next poll instant and the smoothed publish
// rate for a feed from its observed publish timestamps.
//
// The observed rate is the maximum-likelihood estimate for a Poisson
// process (events / total time) over the most recent cfg.SampleSize
// timestamps, blended with the prior rate by exponential smoothing.
// The poll interval is cfg.LeadFactor times the expected inter-arrival
// time, clamped to [MinIntervalHours, MaxIntervalHours] so that bursty
// feeds cannot be hammered and quiet feeds never fall out of view.
//
// With fewer than two usable timestamps (or no positive gaps) there is
// no new observation: the prior rate is returned unchanged and the
// next poll is now + DefaultIntervalHours.
//
// now is injected so that the result is deterministic under test.
func Estimate(now time.Time, published []time.Time, prior *float64, cfg config.Poll) (time.Time, *float64) {
	ts := make([]time.Time, 0, len(published))
	for _, t := range published {
		if !t.IsZero() {
			ts = append(ts, t)
		}
	}
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })

	if len(ts) < 2 {
		return now.Add(hours(cfg.DefaultIntervalHours)), prior
	}

	if len(ts) > cfg.SampleSize {
		ts = ts[len(ts)-cfg.SampleSize:]
	}

	// Duplicate timestamps and clock skew produce non-positive gaps;
	// they carry no rate information.
	var gapCount int
	var gapSum float64
	for i := 1; i < len(ts); i++ {
		gap := ts[i].Sub(ts[i-1]).Hours()
		if gap > 0 {
			gapCount++
			gapSum += gap
		}
	}

	if gapCount == 0 {
		return now.Add(hours(cfg.DefaultIntervalHours)), prior
	}

	observed := float64(gapCount) / gapSum

	rate := observed
	if prior != nil {
		rate = cfg.Alpha*observed + (1-cfg.Alpha)**prior
	}

	interval := clamp(cfg.LeadFactor/rate, cfg.MinIntervalHours, cfg.MaxIntervalHours)

	return now.Add(hours(interval)), &rate
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// hours converts fractional hours to a Duration, rounding so that
// binary representation error cannot shave a nanosecond off exact
// inputs like 0.6.
func hours(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
