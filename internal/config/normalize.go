package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTranscription()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeTranscription() {
	t := &c.Transcription
	t.Provider = strings.ToLower(strings.TrimSpace(t.Provider))
	switch t.Provider {
	case "", "faster_whisper", "fasterwhisper":
		t.Provider = defaultProvider
	}
	if value, ok := os.LookupEnv("VTTSCRIBE_MODEL"); ok && strings.TrimSpace(value) != "" {
		t.Model = value
	}
	if value, ok := os.LookupEnv("VTTSCRIBE_DEVICE"); ok && strings.TrimSpace(value) != "" {
		t.Device = value
	}
	t.Model = strings.TrimSpace(t.Model)
	t.Device = strings.ToLower(strings.TrimSpace(t.Device))
	t.ComputeType = strings.ToLower(strings.TrimSpace(t.ComputeType))
	t.Language = strings.TrimSpace(t.Language)
	t.PythonBinary = defaultString(t.PythonBinary, defaultPythonBinary)
	t.UVXBinary = defaultString(t.UVXBinary, defaultUVXBinary)
	t.FFmpegBinary = defaultString(t.FFmpegBinary, defaultFFmpegBinary)
	t.FFprobeBinary = defaultString(t.FFprobeBinary, defaultFFprobeBinary)
	t.WhisperXVADMethod = strings.ToLower(defaultString(t.WhisperXVADMethod, defaultVADMethod))
	t.HFToken = strings.TrimSpace(t.HFToken)
	if t.HFToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			t.HFToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			t.HFToken = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(defaultString(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(defaultString(c.Logging.Level, defaultLogLevel))
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
