package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"vttscribe/internal/logging"
	"vttscribe/internal/transcribe"
)

// Validate ensures the configuration is usable and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(transcribe.Providers(), c.Transcription.Provider) {
		errs = append(errs, fmt.Errorf("transcription.provider: unsupported value %q (supported: %s)",
			c.Transcription.Provider, strings.Join(transcribe.Providers(), ", ")))
	}
	opts, err := c.TranscribeOptions().Normalize()
	if err != nil {
		errs = append(errs, fmt.Errorf("transcription.language: %w", err))
	} else if err := opts.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("transcription: %w", err))
	}
	switch c.Transcription.WhisperXVADMethod {
	case transcribe.VADMethodSilero, transcribe.VADMethodPyannote:
	default:
		errs = append(errs, fmt.Errorf("transcription.whisperx_vad_method: unsupported value %q", c.Transcription.WhisperXVADMethod))
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		errs = append(errs, errors.New("cache.path: required when cache is enabled"))
	}
	if !logging.ValidFormat(c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}
