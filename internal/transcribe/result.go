package transcribe

import (
	"context"
	"iter"
	"sync"
)

// Provider turns a media file into a lazy sequence of segments.
type Provider interface {
	Name() string
	Transcribe(ctx context.Context, mediaPath string, opts Options) (*Result, error)
}

// Result is the outcome of a successful Transcribe call. Segments may still
// fail while being pulled; those errors surface through the sequence.
type Result struct {
	Info Info

	segments  iter.Seq2[Segment, error]
	closeOnce sync.Once
	closer    func() error
	closeErr  error
}

// NewResult wraps segments as a single-pass sequence. closer may be nil.
func NewResult(info Info, segments iter.Seq2[Segment, error], closer func() error) *Result {
	return &Result{Info: info, segments: Once(segments), closer: closer}
}

// Segments returns the forward-only segment sequence.
func (r *Result) Segments() iter.Seq2[Segment, error] {
	return r.segments
}

// Close releases provider resources. It is safe to call more than once.
func (r *Result) Close() error {
	r.closeOnce.Do(func() {
		if r.closer != nil {
			r.closeErr = r.closer()
		}
	})
	return r.closeErr
}
