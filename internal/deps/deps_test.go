package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: " clearly-not-present-binary "},
		{Name: "Blank", Command: ""},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %q", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestRequirementsByProvider(t *testing.T) {
	tests := []struct {
		provider     string
		requiredName []string
	}{
		{"faster-whisper", []string{"Python"}},
		{"whisperx", []string{"uvx", "FFmpeg"}},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			reqs := Requirements(Tools{Provider: tt.provider, Python: "python3", UVX: "uvx", FFmpeg: "ffmpeg", FFprobe: "ffprobe"})
			var required []string
			for _, req := range reqs {
				if !req.Optional {
					required = append(required, req.Name)
				}
			}
			if len(required) != len(tt.requiredName) {
				t.Fatalf("required = %v, want %v", required, tt.requiredName)
			}
			for i := range required {
				if required[i] != tt.requiredName[i] {
					t.Fatalf("required = %v, want %v", required, tt.requiredName)
				}
			}
		})
	}
}

func TestFirstMissing(t *testing.T) {
	statuses := []Status{
		{Requirement: Requirement{Name: "FFprobe", Optional: true}},
		{Requirement: Requirement{Name: "Python"}, Available: true},
		{Requirement: Requirement{Name: "uvx"}},
	}
	missing, ok := FirstMissing(statuses)
	if !ok || missing.Name != "uvx" {
		t.Fatalf("FirstMissing = %+v, %v", missing, ok)
	}
	if _, ok := FirstMissing(statuses[:2]); ok {
		t.Fatal("optional programs must not count as missing")
	}
}
