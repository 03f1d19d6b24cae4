package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vttscribe/internal/testsupport"
)

func TestCheckInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "talk.mp4")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"regular file", file, false},
		{"missing", filepath.Join(dir, "nope.mp4"), true},
		{"directory", dir, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckInput(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckInput(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrPreflight) {
				t.Fatalf("expected ErrPreflight, got %v", err)
			}
		})
	}
}

func TestCheckOutputDir(t *testing.T) {
	dir := t.TempDir()
	if err := CheckOutputDir(dir); err != nil {
		t.Fatalf("expected writable temp dir, got %v", err)
	}
	if err := CheckOutputDir(filepath.Join(dir, "missing")); !errors.Is(err, ErrPreflight) {
		t.Fatalf("expected ErrPreflight for missing dir, got %v", err)
	}
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckOutputDir(file); !errors.Is(err, ErrPreflight) {
		t.Fatalf("expected ErrPreflight for file path, got %v", err)
	}
}

func TestCheckOutputDirReadOnly(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
	if err := CheckOutputDir(dir); !errors.Is(err, ErrPreflight) {
		t.Fatalf("expected ErrPreflight for read-only dir, got %v", err)
	}
}

func TestCheckDirectoryAccess(t *testing.T) {
	if result := CheckDirectoryAccess("test", t.TempDir()); !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed || result.Detail == "" {
		t.Fatalf("expected failure with detail, got %+v", result)
	}
}

func TestRequireProvider(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMissingBinaries(), testsupport.WithStubbedBinaries("python3"))
	if err := RequireProvider(cfg); err != nil {
		t.Fatalf("faster-whisper only needs python: %v", err)
	}

	cfg.Transcription.Provider = "whisperx"
	if err := RequireProvider(cfg); !errors.Is(err, ErrPreflight) {
		t.Fatalf("expected missing uvx to fail, got %v", err)
	}

	cfg = testsupport.NewConfig(t, testsupport.WithProvider("whisperx"), testsupport.WithMissingBinaries(),
		testsupport.WithStubbedBinaries("uvx", "ffmpeg"))
	if err := RequireProvider(cfg); err != nil {
		t.Fatalf("whisperx with uvx and ffmpeg should pass: %v", err)
	}
}

func TestCheckSystemDepsReportsOptional(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMissingBinaries(), testsupport.WithStubbedBinaries("python3"))
	for _, status := range CheckSystemDeps(cfg) {
		switch status.Name {
		case "Python":
			if !status.Available {
				t.Fatalf("python stub should resolve: %+v", status)
			}
		case "FFprobe":
			if status.Available || !status.Optional {
				t.Fatalf("ffprobe should be missing but optional: %+v", status)
			}
		}
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Cache.Path = filepath.Join(testsupport.BaseDir(cfg), "new", "transcripts.db")
	results := RunAll(cfg)
	if len(results) != 2 {
		t.Fatalf("expected work and cache checks, got %+v", results)
	}
	for _, r := range results {
		if !r.Passed {
			t.Fatalf("unexpected failure: %+v", r)
		}
	}

	cfg = testsupport.NewConfig(t, testsupport.WithCacheDisabled())
	cfg.Logging.Dir = filepath.Join(testsupport.BaseDir(cfg), "absent-logs")
	results = RunAll(cfg)
	if len(results) != 2 || results[1].Passed {
		t.Fatalf("expected failing log directory check, got %+v", results)
	}
}
