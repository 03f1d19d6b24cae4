package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"vttscribe/internal/transcribe"
)

//go:embed sample_config.toml
var sampleConfig string

// Transcription configures the provider and its decoding options.
type Transcription struct {
	Provider             string `toml:"provider"`
	Model                string `toml:"model"`
	Device               string `toml:"device"`
	ComputeType          string `toml:"compute_type"`
	Language             string `toml:"language"`
	BeamSize             int    `toml:"beam_size"`
	VADFilter            bool   `toml:"vad_filter"`
	MinSilenceDurationMS int    `toml:"min_silence_duration_ms"`
	PythonBinary         string `toml:"python_binary"`
	UVXBinary            string `toml:"uvx_binary"`
	FFmpegBinary         string `toml:"ffmpeg_binary"`
	FFprobeBinary        string `toml:"ffprobe_binary"`
	WhisperXVADMethod    string `toml:"whisperx_vad_method"`
	HFToken              string `toml:"hf_token"`
}

// Cache configures the transcript cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Paths contains scratch directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
}

// Config encapsulates all configuration values for vttscribe.
//
// Configuration sections:
//   - Transcription: provider selection, model, device and decoding options
//   - Cache: SQLite transcript cache
//   - Logging: log format, level and optional log directory
//   - Paths: scratch space for providers that write intermediate files
type Config struct {
	Transcription Transcription `toml:"transcription"`
	Cache         Cache         `toml:"cache"`
	Logging       Logging       `toml:"logging"`
	Paths         Paths         `toml:"paths"`
}

// DefaultConfigPath returns where `config init` writes by default:
// $XDG_CONFIG_HOME/vttscribe/config.toml, else ~/.config/vttscribe/config.toml.
func DefaultConfigPath() (string, error) {
	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return expandPath(filepath.Join(base, "vttscribe", "config.toml"))
	}
	return expandPath(defaultConfigPath)
}

// Load reads the configuration at path, or the first existing candidate
// from the search path when path is empty, then normalizes and validates
// it. It returns the config, the file it came from (or the default location
// when no file exists) and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// decodeFile overlays the TOML file at path onto cfg. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file).DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: %s", path, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// searchPaths lists the implicit config locations in priority order.
func searchPaths() ([]string, error) {
	userPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return nil, err
	}
	return []string{userPath, projectPath}, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("config file %s not found", expanded)
		case err != nil:
			return "", false, fmt.Errorf("stat config: %w", err)
		case info.IsDir():
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	candidates, err := searchPaths()
	if err != nil {
		return "", false, err
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return candidates[0], false, nil
}

// TranscribeOptions returns the provider options described by the config.
func (c *Config) TranscribeOptions() transcribe.Options {
	return transcribe.Options{
		ModelVariant:         c.Transcription.Model,
		Device:               c.Transcription.Device,
		ComputePrecision:     c.Transcription.ComputeType,
		Language:             c.Transcription.Language,
		BeamWidth:            c.Transcription.BeamSize,
		VADFilter:            c.Transcription.VADFilter,
		MinSilenceDurationMS: c.Transcription.MinSilenceDurationMS,
	}
}

// ProviderConfig returns the settings used to construct the provider.
func (c *Config) ProviderConfig() transcribe.ProviderConfig {
	return transcribe.ProviderConfig{
		Name:         c.Transcription.Provider,
		PythonBinary: c.Transcription.PythonBinary,
		WhisperX: transcribe.WhisperXConfig{
			UVXBinary:    c.Transcription.UVXBinary,
			FFmpegBinary: c.Transcription.FFmpegBinary,
			WorkDir:      c.Paths.WorkDir,
			VADMethod:    c.Transcription.WhisperXVADMethod,
			HFToken:      c.Transcription.HFToken,
		},
	}
}

// LogFilePath returns the log file location, or "" when file logging is off.
func (c *Config) LogFilePath() string {
	if strings.TrimSpace(c.Logging.Dir) == "" {
		return ""
	}
	return filepath.Join(c.Logging.Dir, "vttscribe.log")
}

// expandPath resolves a leading "~" or "~/" against the home directory and
// makes the result absolute. "~user" forms are left alone.
func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	absolute, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return absolute, nil
}

// ExpandPath applies the config file path rules to value.
func ExpandPath(value string) (string, error) {
	return expandPath(value)
}

func defaultCachePath() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "vttscribe", "transcripts.db")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/vttscribe/transcripts.db"
	}
	return filepath.Join(home, ".cache", "vttscribe", "transcripts.db")
}

// CreateSample writes the annotated sample configuration to path, creating
// parent directories. An existing file is replaced.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
