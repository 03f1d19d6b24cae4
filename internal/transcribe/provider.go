package transcribe

import (
	"fmt"
	"log/slog"
	"strings"
)

// Provider names.
const (
	ProviderFasterWhisper = "faster-whisper"
	ProviderWhisperX      = "whisperx"
)

// ProviderConfig selects and configures a provider.
type ProviderConfig struct {
	Name         string
	PythonBinary string
	WhisperX     WhisperXConfig
}

// Providers lists the supported provider names.
func Providers() []string {
	return []string{ProviderFasterWhisper, ProviderWhisperX}
}

// New builds the provider named in cfg. An empty name selects faster-whisper.
func New(cfg ProviderConfig, logger *slog.Logger) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Name)) {
	case "", ProviderFasterWhisper, "faster_whisper", "fasterwhisper":
		return NewFasterWhisper(cfg.PythonBinary, logger), nil
	case ProviderWhisperX:
		return NewWhisperX(cfg.WhisperX, logger), nil
	default:
		return nil, fmt.Errorf("unknown transcription provider %q (supported: %s)", cfg.Name, strings.Join(Providers(), ", "))
	}
}
