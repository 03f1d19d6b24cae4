package transcriptcache

import (
	"context"
	"iter"
	"time"

	"vttscribe/internal/transcribe"
)

// Recorder collects segments while they stream from a provider.
type Recorder struct {
	store     *Store
	key       Key
	mediaPath string
	info      transcribe.Info
	segments  []transcribe.Segment
	complete  bool
}

// NewRecorder prepares a recorder for one provider result.
func (s *Store) NewRecorder(key Key, mediaPath string, info transcribe.Info) *Recorder {
	return &Recorder{store: s, key: key, mediaPath: mediaPath, info: info}
}

// Wrap returns seq unchanged for the consumer while keeping a copy of every
// segment. The recording is marked complete only when seq ends on its own
// without yielding an error.
func (r *Recorder) Wrap(seq iter.Seq2[transcribe.Segment, error]) iter.Seq2[transcribe.Segment, error] {
	return func(yield func(transcribe.Segment, error) bool) {
		r.complete = false
		failed := false
		stopped := false
		seq(func(seg transcribe.Segment, err error) bool {
			if err != nil {
				failed = true
			} else {
				r.segments = append(r.segments, seg)
			}
			if !yield(seg, err) {
				stopped = true
				return false
			}
			return true
		})
		r.complete = !failed && !stopped
	}
}

// Complete reports whether the wrapped sequence was fully drained.
func (r *Recorder) Complete() bool {
	return r.complete
}

// Commit stores the recorded transcript. It does nothing and returns false
// when the sequence did not complete.
func (r *Recorder) Commit(ctx context.Context) (bool, error) {
	if !r.complete {
		return false, nil
	}
	err := r.store.Put(ctx, Entry{
		Key:       r.key,
		MediaPath: r.mediaPath,
		Info:      r.info,
		Segments:  r.segments,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
