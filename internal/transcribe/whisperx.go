package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"vttscribe/internal/logging"
)

// WhisperX invocation constants.
const (
	CUDAIndexURL      = "https://download.pytorch.org/whl/cu128"
	PypiIndexURL      = "https://pypi.org/simple"
	BatchSize         = "4"
	ChunkSize         = "15"
	VADOnset          = "0.08"
	VADOffset         = "0.07"
	Temperature       = "0.0"
	SegmentResolution = "sentence"
	VADMethodPyannote = "pyannote"
	VADMethodSilero   = "silero"
)

// Command names for external tools.
const (
	UVXCommand    = "uvx"
	FFmpegCommand = "ffmpeg"
)

// WhisperXConfig captures runtime settings for the WhisperX provider.
type WhisperXConfig struct {
	// UVXBinary launches whisperx; defaults to uvx.
	UVXBinary string
	// FFmpegBinary extracts the audio track; defaults to ffmpeg.
	FFmpegBinary string
	// WorkDir holds per-run scratch directories; the system temp dir when empty.
	WorkDir string
	// VADMethod selects "silero" or "pyannote".
	VADMethod string
	// HFToken is the Hugging Face token for pyannote VAD.
	HFToken string
}

// WhisperX runs `uvx whisperx` on an extracted 16 kHz mono WAV and replays
// the segments from its JSON output.
type WhisperX struct {
	cfg           WhisperXConfig
	commandRunner func(ctx context.Context, name string, args ...string) error
	logger        *slog.Logger
}

// NewWhisperX creates a WhisperX provider with the given configuration.
func NewWhisperX(cfg WhisperXConfig, logger *slog.Logger) *WhisperX {
	if strings.TrimSpace(cfg.UVXBinary) == "" {
		cfg.UVXBinary = UVXCommand
	}
	if strings.TrimSpace(cfg.FFmpegBinary) == "" {
		cfg.FFmpegBinary = FFmpegCommand
	}
	cfg.VADMethod = strings.ToLower(strings.TrimSpace(cfg.VADMethod))
	if cfg.VADMethod == "" {
		cfg.VADMethod = VADMethodSilero
	}
	return &WhisperX{cfg: cfg, logger: logging.NewComponentLogger(logger, "whisperx")}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *WhisperX) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Name implements Provider.
func (s *WhisperX) Name() string { return ProviderWhisperX }

// Transcribe extracts audio, runs WhisperX to completion and returns its
// segments. The scratch directory is removed when the Result is closed.
func (s *WhisperX) Transcribe(ctx context.Context, mediaPath string, opts Options) (*Result, error) {
	if strings.TrimSpace(mediaPath) == "" {
		return nil, errors.New("whisperx: media path required")
	}
	opts, err := opts.Normalize()
	if err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}
	if !opts.VADFilter || opts.MinSilenceDurationMS != DefaultMinSilenceDurationMS {
		s.logger.Debug("whisperx always applies its own vad; vad_filter and min_silence_duration_ms are ignored",
			logging.Bool("vad_filter", opts.VADFilter),
			logging.Int("min_silence_duration_ms", opts.MinSilenceDurationMS),
		)
	}

	root := s.cfg.WorkDir
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("whisperx: ensure work dir: %w", err)
		}
	}
	workDir, err := os.MkdirTemp(root, "whisperx-")
	if err != nil {
		return nil, fmt.Errorf("whisperx: create work dir: %w", err)
	}
	cleanup := func() error { return os.RemoveAll(workDir) }

	audioPath := filepath.Join(workDir, "audio.wav")
	if err := s.run(ctx, s.cfg.FFmpegBinary, buildFFmpegExtractArgs(mediaPath, audioPath)...); err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("whisperx: extract audio: %w", err)
	}
	if err := s.run(ctx, s.cfg.UVXBinary, s.buildArgs(audioPath, workDir, opts)...); err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	payload, err := loadWhisperXPayload(filepath.Join(workDir, "audio.json"))
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("whisperx: %w", err)
	}
	info := Info{Language: payload.Language}
	if n := len(payload.Segments); n > 0 {
		info.Duration = payload.Segments[n-1].End
	}
	return NewResult(info, sliceSeq(payload.Segments), cleanup), nil
}

// run executes a command, using the custom runner if set.
func (s *WhisperX) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *WhisperX) buildArgs(source, outputDir string, opts Options) []string {
	args := make([]string, 0, 40)

	if opts.Device == DeviceCUDA {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	args = append(args,
		"whisperx",
		source,
		"--model", opts.ModelVariant,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", "json",
		"--segment_resolution", SegmentResolution,
		"--chunk_size", ChunkSize,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--beam_size", strconv.Itoa(opts.BeamWidth),
		"--temperature", Temperature,
	)

	args = append(args, "--vad_method", s.cfg.VADMethod)
	if s.cfg.VADMethod == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}

	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}

	switch opts.Device {
	case DeviceCUDA:
		args = append(args, "--device", DeviceCUDA)
	case DeviceCPU:
		args = append(args, "--device", DeviceCPU)
	}
	if precision := whisperXComputeType(opts); precision != "" {
		args = append(args, "--compute_type", precision)
	}
	return args
}

func whisperXComputeType(opts Options) string {
	if opts.ComputePrecision != PrecisionAuto {
		return opts.ComputePrecision
	}
	if opts.Device == DeviceCPU {
		return PrecisionFloat32
	}
	return ""
}

func buildFFmpegExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", "0:a:0",
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

type whisperXPayload struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

func loadWhisperXPayload(path string) (whisperXPayload, error) {
	var payload whisperXPayload
	data, err := os.ReadFile(path)
	if err != nil {
		return payload, fmt.Errorf("read output: %w", err)
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, fmt.Errorf("parse whisperx json: %w", err)
	}
	return payload, nil
}
