package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vttscribe/internal/config"
	"vttscribe/internal/language"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			var err error
			if target == "" {
				target, err = config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
			} else if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(cmd); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			if !ctx.configExists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Setting", "Value"}, configRows(cfg), nil))
			return nil
		},
	}
}

func configRows(cfg *config.Config) [][]string {
	t := cfg.Transcription
	lang := t.Language
	if name := language.DisplayName(lang); name != "" && !strings.EqualFold(name, lang) {
		lang = fmt.Sprintf("%s (%s)", lang, name)
	}
	token := "not set"
	if t.HFToken != "" {
		token = "set"
	}
	cachePath := cfg.Cache.Path
	if !cfg.Cache.Enabled {
		cachePath = "disabled"
	}
	logFile := cfg.LogFilePath()
	if logFile == "" {
		logFile = "stderr only"
	}
	workDir := cfg.Paths.WorkDir
	if workDir == "" {
		workDir = os.TempDir() + " (system temp)"
	}
	return [][]string{
		{"provider", t.Provider},
		{"model", t.Model},
		{"device", t.Device},
		{"compute_type", t.ComputeType},
		{"language", lang},
		{"beam_size", strconv.Itoa(t.BeamSize)},
		{"vad_filter", yesNo(t.VADFilter)},
		{"min_silence_duration_ms", strconv.Itoa(t.MinSilenceDurationMS)},
		{"python_binary", t.PythonBinary},
		{"uvx_binary", t.UVXBinary},
		{"ffmpeg_binary", t.FFmpegBinary},
		{"ffprobe_binary", t.FFprobeBinary},
		{"whisperx_vad_method", t.WhisperXVADMethod},
		{"hf_token", token},
		{"cache", cachePath},
		{"log_format", cfg.Logging.Format},
		{"log_level", cfg.Logging.Level},
		{"log_file", logFile},
		{"work_dir", workDir},
	}
}
