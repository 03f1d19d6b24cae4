package failure_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"vttscribe/internal/failure"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := failure.Wrap(failure.ErrProvider, "faster-whisper", "helper exited", base)
	if !errors.Is(err, failure.ErrProvider) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"faster-whisper", "helper exited", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaults(t *testing.T) {
	err := failure.Wrap(nil, "", "", nil)
	if !errors.Is(err, failure.ErrIO) {
		t.Fatalf("expected ErrIO default, got %v", err)
	}
	if !strings.Contains(err.Error(), "run failed") {
		t.Fatalf("unexpected message %q", err)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want failure.Kind
	}{
		{"nil", nil, failure.KindOther},
		{"usage", failure.ErrUsage, failure.KindUsage},
		{"locked", fmt.Errorf("%w: out.vtt", failure.ErrOutputLocked), failure.KindLocked},
		{"preflight", failure.Wrap(failure.ErrPreflight, "input", "missing", nil), failure.KindPreflight},
		{"provider", failure.Wrap(failure.ErrProvider, "whisperx", "", errors.New("exit 1")), failure.KindProvider},
		{"io", failure.Wrap(failure.ErrIO, "write", "", errors.New("disk full")), failure.KindIO},
		{"canceled", fmt.Errorf("transcribe: %w", context.Canceled), failure.KindCanceled},
		{"plain", errors.New("other"), failure.KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHint(t *testing.T) {
	if failure.Hint(errors.New("plain")) != "" {
		t.Fatal("unclassified errors have no hint")
	}
	if !strings.Contains(failure.Hint(failure.ErrPreflight), "doctor") {
		t.Fatal("preflight hint should point at doctor")
	}
}
