package config

import "vttscribe/internal/transcribe"

const (
	defaultConfigPath    = "~/.config/vttscribe/config.toml"
	projectConfigName    = "vttscribe.toml"
	defaultProvider      = transcribe.ProviderFasterWhisper
	defaultPythonBinary  = transcribe.DefaultPythonBinary
	defaultUVXBinary     = transcribe.UVXCommand
	defaultFFmpegBinary  = transcribe.FFmpegCommand
	defaultFFprobeBinary = "ffprobe"
	defaultVADMethod     = transcribe.VADMethodSilero
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultCacheEnabled  = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	opts := transcribe.DefaultOptions()
	return Config{
		Transcription: Transcription{
			Provider:             defaultProvider,
			Model:                opts.ModelVariant,
			Device:               opts.Device,
			ComputeType:          opts.ComputePrecision,
			Language:             opts.Language,
			BeamSize:             opts.BeamWidth,
			VADFilter:            opts.VADFilter,
			MinSilenceDurationMS: opts.MinSilenceDurationMS,
			PythonBinary:         defaultPythonBinary,
			UVXBinary:            defaultUVXBinary,
			FFmpegBinary:         defaultFFmpegBinary,
			FFprobeBinary:        defaultFFprobeBinary,
			WhisperXVADMethod:    defaultVADMethod,
		},
		Cache: Cache{
			Enabled: defaultCacheEnabled,
			Path:    defaultCachePath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
