// Package testsupport holds fixtures shared by package tests: isolated
// configs, cache stores, fake media files and a scripted provider.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vttscribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a fresh temp directory with the
// cache, work dir and logs isolated per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Cache.Path = filepath.Join(base, "cache", "transcripts.db")
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Logging.Level = "error"
	if err := os.MkdirAll(cfgVal.Paths.WorkDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithProvider selects the transcription provider.
func WithProvider(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcription.Provider = name
	}
}

// WithCacheDisabled turns the transcript cache off.
func WithCacheDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = false
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// points the matching config fields at them. Unknown names are only written.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
			tr := &b.cfg.Transcription
			switch name {
			case "python3":
				tr.PythonBinary = target
			case "uvx":
				tr.UVXBinary = target
			case "ffmpeg":
				tr.FFmpegBinary = target
			case "ffprobe":
				tr.FFprobeBinary = target
			}
		}
	}
}

// WithMissingBinaries points every external program at names that cannot
// resolve, so tests do not depend on the host PATH.
func WithMissingBinaries() ConfigOption {
	return func(b *configBuilder) {
		missing := filepath.Join(b.baseDir, "missing")
		tr := &b.cfg.Transcription
		tr.PythonBinary = filepath.Join(missing, "python3")
		tr.UVXBinary = filepath.Join(missing, "uvx")
		tr.FFmpegBinary = filepath.Join(missing, "ffmpeg")
		tr.FFprobeBinary = filepath.Join(missing, "ffprobe")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}

// WriteConfigFile encodes cfg as TOML next to its temp directories and
// returns the path, for tests that drive config.Load or the CLI.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "vttscribe.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
