package logging

import "math"

const (
	defaultPercentStep  = 10
	defaultPositionStep = 60
)

// ProgressSampler throttles progress logs for a stream of cue end times.
// With a known media duration it emits once per percentStep of progress,
// otherwise once per positionStep seconds of media.
type ProgressSampler struct {
	percentStep  float64
	positionStep float64
	last         int
}

// NewProgressSampler returns a sampler emitting every percentStep percent
// (default 10) or every positionStep seconds (default 60) when the total is
// unknown. Non-positive steps select the defaults.
func NewProgressSampler(percentStep, positionStep float64) *ProgressSampler {
	if percentStep <= 0 {
		percentStep = defaultPercentStep
	}
	if positionStep <= 0 {
		positionStep = defaultPositionStep
	}
	return &ProgressSampler{percentStep: percentStep, positionStep: positionStep, last: -1}
}

// Percent converts position into a percentage of total, capped at 100. It
// returns -1 when total is unknown.
func Percent(position, total float64) float64 {
	if total <= 0 || math.IsNaN(position) || math.IsInf(total, 0) {
		return -1
	}
	return math.Max(0, math.Min(position/total*100, 100))
}

// ShouldLog reports whether the cue ending at position should be logged.
// Positions that move backwards never emit.
func (s *ProgressSampler) ShouldLog(position, total float64) bool {
	if s == nil {
		return true
	}
	var bucket int
	if percent := Percent(position, total); percent >= 0 {
		bucket = int(percent / s.percentStep)
	} else {
		if math.IsNaN(position) || position < 0 {
			position = 0
		}
		bucket = int(math.Min(position/s.positionStep, math.MaxInt32))
	}
	if bucket <= s.last {
		return false
	}
	s.last = bucket
	return true
}
