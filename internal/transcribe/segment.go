package transcribe

import (
	"errors"
	"iter"
	"sync/atomic"
)

// ErrConsumed is yielded when a single-pass segment sequence is iterated a
// second time.
var ErrConsumed = errors.New("segment sequence already consumed")

// Segment is one unit of transcribed speech as reported by a provider.
// End is expected to be >= Start but providers do not guarantee it.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Info carries auxiliary metadata reported alongside the segments.
type Info struct {
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Duration            float64 `json:"duration"`
}

// Once wraps seq so that only the first iteration reaches it. Later
// iterations yield a single ErrConsumed.
func Once(seq iter.Seq2[Segment, error]) iter.Seq2[Segment, error] {
	var used atomic.Bool
	return func(yield func(Segment, error) bool) {
		if used.Swap(true) {
			yield(Segment{}, ErrConsumed)
			return
		}
		seq(yield)
	}
}

// FromSlice returns a single-pass sequence over segments.
func FromSlice(segments []Segment) iter.Seq2[Segment, error] {
	return Once(sliceSeq(segments))
}

func sliceSeq(segments []Segment) iter.Seq2[Segment, error] {
	return func(yield func(Segment, error) bool) {
		for _, seg := range segments {
			if !yield(seg, nil) {
				return
			}
		}
	}
}

// Tap calls fn for every segment pulled through seq without altering it.
func Tap(seq iter.Seq2[Segment, error], fn func(Segment)) iter.Seq2[Segment, error] {
	return func(yield func(Segment, error) bool) {
		for seg, err := range seq {
			if err == nil && fn != nil {
				fn(seg)
			}
			if !yield(seg, err) {
				return
			}
		}
	}
}
