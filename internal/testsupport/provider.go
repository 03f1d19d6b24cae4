package testsupport

import (
	"context"
	"sync"

	"vttscribe/internal/transcribe"
)

// FakeProvider replays scripted segments and records how it was called.
// FailWith, when set, is yielded after the scripted segments.
type FakeProvider struct {
	Info     transcribe.Info
	Segments []transcribe.Segment
	FailWith error
	StartErr error

	mu       sync.Mutex
	calls    int
	lastPath string
	lastOpts transcribe.Options
}

// Name implements transcribe.Provider.
func (f *FakeProvider) Name() string { return "fake" }

// Transcribe implements transcribe.Provider.
func (f *FakeProvider) Transcribe(_ context.Context, mediaPath string, opts transcribe.Options) (*transcribe.Result, error) {
	f.mu.Lock()
	f.calls++
	f.lastPath = mediaPath
	f.lastOpts = opts
	f.mu.Unlock()

	if f.StartErr != nil {
		return nil, f.StartErr
	}
	segments := append([]transcribe.Segment(nil), f.Segments...)
	failure := f.FailWith
	seq := func(yield func(transcribe.Segment, error) bool) {
		for _, seg := range segments {
			if !yield(seg, nil) {
				return
			}
		}
		if failure != nil {
			yield(transcribe.Segment{}, failure)
		}
	}
	return transcribe.NewResult(f.Info, seq, nil), nil
}

// Calls reports how many times Transcribe ran.
func (f *FakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastOptions returns the options passed to the most recent call.
func (f *FakeProvider) LastOptions() transcribe.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastOpts
}

// LastPath returns the media path passed to the most recent call.
func (f *FakeProvider) LastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath
}
