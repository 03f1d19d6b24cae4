package webvtt

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vttscribe/internal/transcribe"
)

func serializeString(t *testing.T, segments []transcribe.Segment) (string, Stats) {
	t.Helper()
	var buf bytes.Buffer
	stats, err := Serialize(&buf, transcribe.FromSlice(segments))
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}
	return buf.String(), stats
}

func TestSerializeRoundTripScenario(t *testing.T) {
	got, stats := serializeString(t, []transcribe.Segment{
		{Start: 0.0, End: 1.5, Text: "Hello  world"},
		{Start: 1.5, End: 3.0, Text: " foo bar "},
	})
	want := "WEBVTT\n\n" +
		"00:00:00.000 --> 00:00:01.500\nHello world\n\n" +
		"00:00:01.500 --> 00:00:03.000\nfoo bar\n\n"
	if got != want {
		t.Fatalf("unexpected document:\n%q\nwant:\n%q", got, want)
	}
	if stats.Cues != 2 {
		t.Fatalf("expected 2 cues, got %d", stats.Cues)
	}
	if stats.Bytes != int64(len(want)) {
		t.Fatalf("expected %d bytes, got %d", len(want), stats.Bytes)
	}
	if stats.LastCueEnd != 3.0 {
		t.Fatalf("expected last cue end 3.0, got %v", stats.LastCueEnd)
	}
}

func TestSerializeEmptyInputWritesHeaderOnly(t *testing.T) {
	got, stats := serializeString(t, nil)
	if got != "WEBVTT\n\n" {
		t.Fatalf("expected header only, got %q", got)
	}
	if stats.Cues != 0 {
		t.Fatalf("expected zero cues, got %d", stats.Cues)
	}

	var buf bytes.Buffer
	if _, err := Serialize(&buf, nil); err != nil {
		t.Fatalf("Serialize(nil) returned error: %v", err)
	}
	if buf.String() != Header {
		t.Fatalf("expected header for nil sequence, got %q", buf.String())
	}
}

func TestSerializeEmptyText(t *testing.T) {
	got, stats := serializeString(t, []transcribe.Segment{{Start: 1, End: 2, Text: ""}})
	want := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n\n\n"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if stats.EmptyCues != 1 {
		t.Fatalf("expected EmptyCues=1, got %d", stats.EmptyCues)
	}
}

func TestSerializeClampsNegativeStart(t *testing.T) {
	got, _ := serializeString(t, []transcribe.Segment{{Start: -2.0, End: 1.0, Text: "x"}})
	if !strings.Contains(got, "00:00:00.000 --> 00:00:01.000\n") {
		t.Fatalf("expected clamped start, got %q", got)
	}
}

func TestSerializeRaisesEndBeforeStart(t *testing.T) {
	got, stats := serializeString(t, []transcribe.Segment{{Start: 5, End: 4, Text: "backwards"}})
	if !strings.Contains(got, "00:00:05.000 --> 00:00:05.000\n") {
		t.Fatalf("expected end raised to start, got %q", got)
	}
	if stats.AdjustedEnds != 1 {
		t.Fatalf("expected AdjustedEnds=1, got %d", stats.AdjustedEnds)
	}
}

func TestSerializeRejectsNonFiniteTimes(t *testing.T) {
	for _, seg := range []transcribe.Segment{
		{Start: math.NaN(), End: 1},
		{Start: 0, End: math.Inf(1)},
		{Start: math.Inf(-1), End: 0},
	} {
		var buf bytes.Buffer
		stats, err := Serialize(&buf, transcribe.FromSlice([]transcribe.Segment{{Start: 0, End: 1, Text: "ok"}, seg}))
		if !errors.Is(err, ErrInvalidTimestamp) {
			t.Fatalf("expected ErrInvalidTimestamp for %+v, got %v", seg, err)
		}
		if !strings.Contains(err.Error(), "cue 2") {
			t.Fatalf("expected error to name cue 2, got %v", err)
		}
		if stats.Cues != 1 {
			t.Fatalf("expected first cue to be written, got %d", stats.Cues)
		}
		if !strings.HasPrefix(buf.String(), "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nok\n\n") {
			t.Fatalf("expected partial output to be flushed, got %q", buf.String())
		}
	}
}

func TestSerializePreservesOrderAndCount(t *testing.T) {
	segments := []transcribe.Segment{
		{Start: 10, End: 11, Text: "third by time"},
		{Start: 0, End: 1, Text: "first by time"},
		{Start: 5, End: 6, Text: "second by time"},
		{Start: 5, End: 6, Text: "second by time"},
	}
	got, stats := serializeString(t, segments)
	if n := strings.Count(got, "-->"); n != len(segments) {
		t.Fatalf("expected %d timing lines, got %d", len(segments), n)
	}
	if stats.Cues != len(segments) {
		t.Fatalf("expected %d cues, got %d", len(segments), stats.Cues)
	}
	doc, err := Parse(strings.NewReader(got))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	for i, cue := range doc.Cues {
		if cue.Text != segments[i].Text || cue.Start != segments[i].Start {
			t.Fatalf("cue %d out of order: %+v", i, cue)
		}
	}
}

func TestSerializePropagatesSequenceError(t *testing.T) {
	boom := errors.New("provider exploded")
	seq := iter.Seq2[transcribe.Segment, error](func(yield func(transcribe.Segment, error) bool) {
		if !yield(transcribe.Segment{Start: 0, End: 1, Text: "a"}, nil) {
			return
		}
		yield(transcribe.Segment{}, boom)
	})
	var buf bytes.Buffer
	stats, err := Serialize(&buf, seq)
	if !errors.Is(err, boom) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if stats.Cues != 1 {
		t.Fatalf("expected one cue before failure, got %d", stats.Cues)
	}
}

func TestSerializeStopsPullingAfterFailure(t *testing.T) {
	pulled := 0
	seq := iter.Seq2[transcribe.Segment, error](func(yield func(transcribe.Segment, error) bool) {
		for i := 0; i < 5; i++ {
			pulled++
			seg := transcribe.Segment{Start: float64(i), End: float64(i + 1)}
			if i == 1 {
				seg.End = math.NaN()
			}
			if !yield(seg, nil) {
				return
			}
		}
	})
	if _, err := Serialize(&bytes.Buffer{}, seq); err == nil {
		t.Fatal("expected error")
	}
	if pulled != 2 {
		t.Fatalf("expected sequence to stop after the bad cue, pulled %d", pulled)
	}
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, fmt.Errorf("disk full")
	}
	f.after--
	return len(p), nil
}

func TestSerializeSinkFailure(t *testing.T) {
	_, err := Serialize(&failingWriter{}, transcribe.FromSlice([]transcribe.Segment{{Start: 0, End: 1, Text: "x"}}))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestWriteFileTruncatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vtt")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	stats, err := WriteFile(path, transcribe.FromSlice([]transcribe.Segment{{Start: 0, End: 1, Text: "fresh"}}))
	if err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nfresh\n\n"
	if string(data) != want {
		t.Fatalf("got %q want %q", data, want)
	}
	if stats.Bytes != int64(len(want)) {
		t.Fatalf("expected %d bytes, got %d", len(want), stats.Bytes)
	}
}

func TestWriteFileMissingParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.vtt")
	_, err := WriteFile(path, transcribe.FromSlice(nil))
	if err == nil {
		t.Fatal("expected error when parent directory is absent")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSerializeSecondPassYieldsConsumed(t *testing.T) {
	seq := transcribe.FromSlice([]transcribe.Segment{{Start: 0, End: 1, Text: "once"}})
	if _, err := Serialize(&bytes.Buffer{}, seq); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if _, err := Serialize(&bytes.Buffer{}, seq); !errors.Is(err, transcribe.ErrConsumed) {
		t.Fatalf("expected ErrConsumed on second pass, got %v", err)
	}
}
