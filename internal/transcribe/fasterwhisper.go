package transcribe

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"vttscribe/internal/logging"
)

//go:embed assets/faster_whisper_stream.py
var fasterWhisperScript string

// DefaultPythonBinary runs the faster-whisper helper.
const DefaultPythonBinary = "python3"

const maxStreamLine = 1 << 20

// FasterWhisper runs faster-whisper through an embedded python helper that
// streams one JSON record per line.
type FasterWhisper struct {
	python string
	start  StartFunc
	logger *slog.Logger
}

// NewFasterWhisper creates the provider. An empty python selects python3.
func NewFasterWhisper(python string, logger *slog.Logger) *FasterWhisper {
	python = strings.TrimSpace(python)
	if python == "" {
		python = DefaultPythonBinary
	}
	return &FasterWhisper{
		python: python,
		start:  execStart,
		logger: logging.NewComponentLogger(logger, "faster-whisper"),
	}
}

// WithStarter replaces the process launcher (for testing).
func (f *FasterWhisper) WithStarter(start StartFunc) {
	f.start = start
}

// Name implements Provider.
func (f *FasterWhisper) Name() string { return ProviderFasterWhisper }

// Transcribe starts the helper and waits for its info record. Segments are
// read from the helper's stdout as the returned sequence is pulled.
func (f *FasterWhisper) Transcribe(ctx context.Context, mediaPath string, opts Options) (*Result, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return nil, errors.New("faster-whisper: media path required")
	}
	opts, err := opts.Normalize()
	if err != nil {
		return nil, fmt.Errorf("faster-whisper: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("faster-whisper: %w", err)
	}

	f.logger.Debug("starting faster-whisper helper",
		logging.String("python", f.python),
		logging.String("model", opts.ModelVariant),
		logging.String("device", opts.Device),
		logging.String("compute_type", opts.ComputePrecision),
	)

	runCtx, cancel := context.WithCancel(ctx)
	stdout, wait, err := f.start(runCtx, f.python, f.buildArgs(mediaPath, opts)...)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("faster-whisper: %w", err)
	}

	var waitOnce sync.Once
	var waitErr error
	finish := func() error {
		waitOnce.Do(func() { waitErr = wait() })
		return waitErr
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStreamLine)

	info, err := readInfo(scanner)
	if err != nil {
		if errors.Is(err, errNoInfo) {
			// stdout is closed; let the helper exit so its status and stderr are reported.
			exitErr := finish()
			cancel()
			if exitErr != nil {
				return nil, fmt.Errorf("faster-whisper: %w", exitErr)
			}
			return nil, fmt.Errorf("faster-whisper: %w", err)
		}
		cancel()
		_ = finish()
		return nil, fmt.Errorf("faster-whisper: %w", err)
	}

	segments := func(yield func(Segment, error) bool) {
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var rec streamRecord
			if err := json.Unmarshal(line, &rec); err != nil {
				yield(Segment{}, fmt.Errorf("faster-whisper: malformed record: %w", err))
				return
			}
			switch rec.Type {
			case "segment":
				if !yield(Segment{Start: rec.Start, End: rec.End, Text: rec.Text}, nil) {
					return
				}
			case "error":
				yield(Segment{}, fmt.Errorf("faster-whisper: %s", rec.Message))
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Segment{}, fmt.Errorf("faster-whisper: read output: %w", err))
			return
		}
		if err := finish(); err != nil {
			yield(Segment{}, fmt.Errorf("faster-whisper: %w", err))
		}
	}

	closer := func() error {
		cancel()
		_ = finish()
		return nil
	}
	return NewResult(info, segments, closer), nil
}

func (f *FasterWhisper) buildArgs(mediaPath string, opts Options) []string {
	return []string{
		"-c", fasterWhisperScript,
		"--input", mediaPath,
		"--model", opts.ModelVariant,
		"--device", opts.Device,
		"--compute-type", opts.ComputePrecision,
		"--language", opts.Language,
		"--beam-size", strconv.Itoa(opts.BeamWidth),
		"--vad-filter", strconv.FormatBool(opts.VADFilter),
		"--min-silence-ms", strconv.Itoa(opts.MinSilenceDurationMS),
	}
}

var errNoInfo = errors.New("helper exited before reporting transcription info")

type streamRecord struct {
	Type                string  `json:"type"`
	Message             string  `json:"message"`
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Duration            float64 `json:"duration"`
	Start               float64 `json:"start"`
	End                 float64 `json:"end"`
	Text                string  `json:"text"`
}

func readInfo(scanner *bufio.Scanner) (Info, error) {
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec streamRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			return Info{}, fmt.Errorf("malformed record: %w", err)
		}
		switch rec.Type {
		case "info":
			return Info{
				Language:            rec.Language,
				LanguageProbability: rec.LanguageProbability,
				Duration:            rec.Duration,
			}, nil
		case "error":
			return Info{}, errors.New(rec.Message)
		}
	}
	if err := scanner.Err(); err != nil {
		return Info{}, fmt.Errorf("read output: %w", err)
	}
	return Info{}, errNoInfo
}
