package webvtt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"os"

	"vttscribe/internal/transcribe"
)

// Header is the mandatory first block of every document.
const Header = "WEBVTT\n\n"

// ErrInvalidTimestamp reports a NaN or infinite segment time.
var ErrInvalidTimestamp = errors.New("invalid cue timestamp")

// Stats summarizes a completed serialization.
type Stats struct {
	Cues         int
	Bytes        int64
	LastCueEnd   float64
	EmptyCues    int
	AdjustedEnds int
}

// Writer streams cues to an underlying sink. The header is emitted lazily on
// the first write or on Flush, whichever comes first.
type Writer struct {
	w             *bufio.Writer
	counter       *countingWriter
	headerWritten bool
	stats         Stats
}

// NewWriter wraps w for cue output.
func NewWriter(w io.Writer) *Writer {
	counter := &countingWriter{w: w}
	return &Writer{w: bufio.NewWriter(counter), counter: counter}
}

// WriteHeader emits the WEBVTT header if it has not been written yet.
func (w *Writer) WriteHeader() error {
	if w.headerWritten {
		return nil
	}
	w.headerWritten = true
	if _, err := w.w.WriteString(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

// WriteSegment emits one cue. Negative times are clamped to zero and an end
// earlier than the start is raised to the start. NaN or infinite times return
// ErrInvalidTimestamp without writing anything.
func (w *Writer) WriteSegment(seg transcribe.Segment) error {
	if !finite(seg.Start) || !finite(seg.End) {
		return fmt.Errorf("cue %d: start=%v end=%v: %w", w.stats.Cues+1, seg.Start, seg.End, ErrInvalidTimestamp)
	}
	if err := w.WriteHeader(); err != nil {
		return err
	}
	start := math.Max(seg.Start, 0)
	end := math.Max(seg.End, 0)
	if end < start {
		end = start
		w.stats.AdjustedEnds++
	}
	text := NormalizeText(seg.Text)
	if text == "" {
		w.stats.EmptyCues++
	}
	if _, err := fmt.Fprintf(w.w, "%s --> %s\n%s\n\n", FormatTimestamp(start), FormatTimestamp(end), text); err != nil {
		return fmt.Errorf("write cue %d: %w", w.stats.Cues+1, err)
	}
	w.stats.Cues++
	w.stats.LastCueEnd = end
	return nil
}

// Flush writes the header if needed and pushes buffered output to the sink.
func (w *Writer) Flush() error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Stats returns counters for everything written so far. Bytes only covers
// flushed output.
func (w *Writer) Stats() Stats {
	stats := w.stats
	stats.Bytes = w.counter.n
	return stats
}

// Serialize writes a complete document for segments to w. Segments are pulled
// in order and written as they arrive; an error yielded by the sequence stops
// serialization and is returned.
func Serialize(w io.Writer, segments iter.Seq2[transcribe.Segment, error]) (Stats, error) {
	vw := NewWriter(w)
	if err := vw.WriteHeader(); err != nil {
		return vw.Stats(), err
	}
	if segments != nil {
		for seg, err := range segments {
			if err != nil {
				_ = vw.Flush()
				return vw.Stats(), fmt.Errorf("segment %d: %w", vw.stats.Cues+1, err)
			}
			if err := vw.WriteSegment(seg); err != nil {
				_ = vw.Flush()
				return vw.Stats(), err
			}
		}
	}
	if err := vw.Flush(); err != nil {
		return vw.Stats(), err
	}
	return vw.Stats(), nil
}

// WriteFile creates or truncates path and serializes segments into it. The
// parent directory must already exist. The file is closed on every path;
// partial output is left in place on failure.
func WriteFile(path string, segments iter.Seq2[transcribe.Segment, error]) (stats Stats, err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Stats{}, fmt.Errorf("open vtt output: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close vtt output: %w", closeErr)
		}
	}()
	return Serialize(file, segments)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
