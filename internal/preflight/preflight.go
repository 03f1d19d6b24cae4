package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"vttscribe/internal/config"
	"vttscribe/internal/deps"
)

// Tools maps the configured binaries onto dependency requirements.
func Tools(cfg *config.Config) deps.Tools {
	return deps.Tools{
		Provider: cfg.Transcription.Provider,
		Python:   cfg.Transcription.PythonBinary,
		UVX:      cfg.Transcription.UVXBinary,
		FFmpeg:   cfg.Transcription.FFmpegBinary,
		FFprobe:  cfg.Transcription.FFprobeBinary,
	}
}

// CheckSystemDeps evaluates every external program for cfg. The doctor
// command and the transcription run share this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(Tools(cfg)))
}

// RequireProvider fails when a program the configured provider cannot run
// without is missing.
func RequireProvider(cfg *config.Config) error {
	if missing, ok := deps.FirstMissing(CheckSystemDeps(cfg)); ok {
		return fmt.Errorf("%w: %s (%s): %s", ErrPreflight, missing.Name, missing.Description, missing.Detail)
	}
	return nil
}

// RunAll executes the directory checks shown by the doctor command.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	workDir := cfg.Paths.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	results = append(results, CheckDirectoryAccess("Work directory", workDir))
	if cfg.Cache.Enabled {
		results = append(results, checkCacheDir(filepath.Dir(cfg.Cache.Path)))
	}
	if cfg.Logging.Dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}
	return results
}

func checkCacheDir(dir string) Result {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return Result{Name: "Cache directory", Passed: true, Detail: fmt.Sprintf("%s (created on first use)", dir)}
	}
	return CheckDirectoryAccess("Cache directory", dir)
}
