package main

import (
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"vttscribe/internal/logging"
	"vttscribe/internal/transcribe"
	"vttscribe/internal/webvtt"
)

// progressReporter observes segments as they are written.
type progressReporter interface {
	Observe(seg transcribe.Segment)
	Finish()
}

// newProgressReporter draws a bar when w is a terminal and falls back to
// sampled log lines otherwise. total is the media duration in seconds, or 0
// when unknown.
func newProgressReporter(w io.Writer, total float64, logger *slog.Logger) progressReporter {
	if isTerminalWriter(w) {
		return newBarReporter(w, total)
	}
	return &logReporter{
		logger:  logger,
		total:   total,
		sampler: logging.NewProgressSampler(10, 60),
	}
}

func isTerminalWriter(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type barReporter struct {
	bar   *progressbar.ProgressBar
	total int64
	cues  int
}

func newBarReporter(w io.Writer, total float64) *barReporter {
	limit := int64(-1)
	if total > 0 && !math.IsInf(total, 0) {
		limit = int64(math.Ceil(total))
	}
	bar := progressbar.NewOptions64(limit,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("transcribing"),
		progressbar.OptionSetItsString("s"),
		progressbar.OptionShowIts(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSpinnerType(14),
	)
	return &barReporter{bar: bar, total: limit}
}

func (r *barReporter) Observe(seg transcribe.Segment) {
	r.cues++
	pos := int64(math.Floor(seg.End))
	if r.total > 0 && pos > r.total {
		pos = r.total
	}
	if pos < 0 || math.IsNaN(seg.End) {
		pos = 0
	}
	_ = r.bar.Set64(pos)
	r.bar.Describe("transcribing (" + webvtt.FormatTimestamp(seg.End) + ")")
}

func (r *barReporter) Finish() {
	_ = r.bar.Finish()
}

type logReporter struct {
	logger  *slog.Logger
	total   float64
	sampler *logging.ProgressSampler
	cues    int
}

func (r *logReporter) Observe(seg transcribe.Segment) {
	r.cues++
	if !r.sampler.ShouldLog(seg.End, r.total) {
		return
	}
	percent := logging.Percent(seg.End, r.total)
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "transcription_progress"),
		logging.Int("cues", r.cues),
		logging.String("position", webvtt.FormatTimestamp(seg.End)),
	}
	if percent >= 0 {
		attrs = append(attrs, logging.Float64("percent", math.Round(percent*10)/10))
	}
	r.logger.Info("transcription progress", logging.Args(attrs...)...)
}

func (r *logReporter) Finish() {}
