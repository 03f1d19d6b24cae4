package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vttscribe/internal/config"
	"vttscribe/internal/logging"
)

// flagOverrides holds root flags that take precedence over the config file.
type flagOverrides struct {
	logLevel     string
	logFormat    string
	provider     string
	model        string
	device       string
	computeType  string
	language     string
	beamSize     int
	vadFilter    bool
	minSilenceMS int
	noCache      bool
}

type commandContext struct {
	configFlag *string
	overrides  *flagOverrides

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag *string, overrides *flagOverrides) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		overrides:  overrides,
	}
}

// ensureConfig loads the configuration once and applies any flags the user
// set on cmd.
func (c *commandContext) ensureConfig(cmd *cobra.Command) (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if cmd != nil {
			c.applyOverrides(cmd, cfg)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = fmt.Errorf("invalid options: %w", err)
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	o := c.overrides
	if o == nil {
		return
	}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	t := &cfg.Transcription
	if changed("provider") {
		t.Provider = strings.ToLower(strings.TrimSpace(o.provider))
	}
	if changed("model") {
		t.Model = strings.TrimSpace(o.model)
	}
	if changed("device") {
		t.Device = strings.ToLower(strings.TrimSpace(o.device))
	}
	if changed("compute-type") {
		t.ComputeType = strings.ToLower(strings.TrimSpace(o.computeType))
	}
	if changed("language") {
		t.Language = strings.TrimSpace(o.language)
	}
	if changed("beam-size") {
		t.BeamSize = o.beamSize
	}
	if changed("vad-filter") {
		t.VADFilter = o.vadFilter
	}
	if changed("min-silence-ms") {
		t.MinSilenceDurationMS = o.minSilenceMS
	}
	if changed("no-cache") && o.noCache {
		cfg.Cache.Enabled = false
	}
	if changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(o.logLevel))
	}
	if changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(o.logFormat))
	}
}

// newLogger builds the run logger. Logs go to stderr so stdout stays free
// for user-facing messages; a log file is added when logging.dir is set.
func (c *commandContext) newLogger(cfg *config.Config) (*slog.Logger, error) {
	outputs := []string{"stderr"}
	if path := cfg.LogFilePath(); path != "" {
		outputs = append(outputs, path)
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
