package webvtt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxMillis is the largest millisecond count FormatTimestamp renders. Larger
// inputs, including +Inf, saturate to it.
const maxMillis = int64(math.MaxInt64 / 2)

const (
	millisPerSecond = 1000
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
)

// FormatTimestamp renders seconds as a WebVTT timestamp (HH:MM:SS.mmm).
//
// Negative values, NaN and -Inf render as 00:00:00.000. The fractional part is
// rounded half to even to whole milliseconds (1.0625 renders as .062) and a
// rounded value of 1000 carries into the seconds field, so 59.9996 renders as
// 00:01:00.000. Hours are padded to two digits but never truncated.
func FormatTimestamp(seconds float64) string {
	total := toMillis(seconds)
	h := total / millisPerHour
	total %= millisPerHour
	m := total / millisPerMinute
	total %= millisPerMinute
	s := total / millisPerSecond
	ms := total % millisPerSecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}

func toMillis(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	if seconds >= float64(maxMillis/millisPerSecond) {
		return maxMillis
	}
	whole := math.Floor(seconds)
	frac := math.RoundToEven((seconds - whole) * millisPerSecond)
	return int64(whole)*millisPerSecond + int64(frac)
}

// ParseTimestamp converts a WebVTT timestamp back to seconds. Both the
// HH:MM:SS.mmm and the short MM:SS.mmm forms are accepted.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	clock, fraction, ok := strings.Cut(value, ".")
	if !ok || len(fraction) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	hours, errH := strconv.ParseInt(parts[0], 10, 64)
	minutes, errM := strconv.Atoi(parts[1])
	secs, errS := strconv.Atoi(parts[2])
	millis, errMS := strconv.Atoi(fraction)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if hours < 0 || minutes < 0 || minutes > 59 || secs < 0 || secs > 59 || millis < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+int64(minutes*60+secs)) + float64(millis)/millisPerSecond, nil
}
