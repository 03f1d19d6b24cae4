package transcriptcache_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"vttscribe/internal/transcribe"
)

func failingSeq(good []transcribe.Segment, failure error) iter.Seq2[transcribe.Segment, error] {
	return func(yield func(transcribe.Segment, error) bool) {
		for _, seg := range good {
			if !yield(seg, nil) {
				return
			}
		}
		yield(transcribe.Segment{}, failure)
	}
}

func TestRecorderCommitsCompletedSequence(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	key := testKey("recorded")
	segments := []transcribe.Segment{{Start: 0, End: 1, Text: "a"}, {Start: 1, End: 2, Text: "b"}}

	rec := store.NewRecorder(key, "/media/a.mp4", transcribe.Info{Language: "en"})
	count := 0
	for _, err := range rec.Wrap(transcribe.FromSlice(segments)) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
	}
	if count != 2 {
		t.Fatalf("consumer saw %d segments", count)
	}
	if !rec.Complete() {
		t.Fatal("expected completed recording")
	}
	stored, err := rec.Commit(ctx)
	if err != nil || !stored {
		t.Fatalf("Commit: stored=%v err=%v", stored, err)
	}

	entry, ok, err := store.Lookup(ctx, key)
	if err != nil || !ok {
		t.Fatalf("Lookup: ok=%v err=%v", ok, err)
	}
	if len(entry.Segments) != 2 || entry.Info.Language != "en" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestRecorderSkipsFailedSequence(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	key := testKey("failed")
	boom := errors.New("helper crashed")

	rec := store.NewRecorder(key, "", transcribe.Info{})
	var gotErr error
	for _, err := range rec.Wrap(failingSeq([]transcribe.Segment{{Start: 0, End: 1, Text: "a"}}, boom)) {
		if err != nil {
			gotErr = err
			break
		}
	}
	if !errors.Is(gotErr, boom) {
		t.Fatalf("expected provider error to pass through, got %v", gotErr)
	}
	if rec.Complete() {
		t.Fatal("failed sequence must not be complete")
	}
	stored, err := rec.Commit(ctx)
	if err != nil || stored {
		t.Fatalf("Commit: stored=%v err=%v", stored, err)
	}
	if _, ok, _ := store.Lookup(ctx, key); ok {
		t.Fatal("partial transcript must not be cached")
	}
}

func TestRecorderSkipsAbandonedSequence(t *testing.T) {
	store := openStore(t)
	segments := []transcribe.Segment{{Start: 0, End: 1, Text: "a"}, {Start: 1, End: 2, Text: "b"}}
	rec := store.NewRecorder(testKey("abandoned"), "", transcribe.Info{})
	for range rec.Wrap(transcribe.FromSlice(segments)) {
		break
	}
	if rec.Complete() {
		t.Fatal("abandoned sequence must not be complete")
	}
}
