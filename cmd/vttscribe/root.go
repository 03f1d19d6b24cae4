package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vttscribe/internal/failure"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var overrides flagOverrides

	ctx := newCommandContext(&configFlag, &overrides)

	rootCmd := &cobra.Command{
		Use:   "vttscribe <input_media_path> <output_vtt_path>",
		Short: "Transcribe a video or audio file into WebVTT subtitles",
		Long: `vttscribe runs a speech recognition provider (faster-whisper or WhisperX)
over a media file and streams the recognised segments into a WebVTT file.`,
		Example: `  vttscribe talk.mp4 subs/talk.vtt
  vttscribe --model small --language auto interview.wav interview.vtt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if cmd == cmd.Root() && len(args) < 2 {
				return nil
			}
			_, err := ctx.ensureConfig(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: expected 2 arguments (input media and output .vtt path), got %d\n\n", len(args))
				fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
				return failure.ErrUsage
			}
			if extra := args[2:]; len(extra) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring extra arguments: %s\n", strings.Join(extra, " "))
			}
			return ctx.runTranscription(cmd, args[0], args[1])
		},
	}

	flags := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&overrides.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&overrides.logFormat, "log-format", "", "Log format override (console, json)")
	flags.StringVar(&overrides.provider, "provider", "", "Transcription provider (faster-whisper, whisperx)")
	flags.StringVar(&overrides.model, "model", "", "Model variant, e.g. medium.en or large-v3")
	flags.StringVar(&overrides.device, "device", "", "Inference device (auto, cpu, cuda)")
	flags.StringVar(&overrides.computeType, "compute-type", "", "Compute precision (auto, float16, int8, ...)")
	flags.StringVar(&overrides.language, "language", "", "Language hint (ISO code, name, or auto)")
	flags.IntVar(&overrides.beamSize, "beam-size", 0, "Decoding beam width")
	flags.BoolVar(&overrides.vadFilter, "vad-filter", true, "Filter non-speech with voice activity detection")
	flags.IntVar(&overrides.minSilenceMS, "min-silence-ms", 0, "Minimum silence duration for VAD in milliseconds")
	flags.BoolVar(&overrides.noCache, "no-cache", false, "Bypass the transcript cache")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newCacheCommand(ctx))

	return rootCmd
}
