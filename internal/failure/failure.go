// Package failure classifies the errors a vttscribe run can end with so the
// CLI can print a matching hint. Every class exits with status 1.
package failure

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUsage        = errors.New("usage error")
	ErrPreflight    = errors.New("preflight failed")
	ErrIO           = errors.New("i/o error")
	ErrProvider     = errors.New("provider error")
	ErrOutputLocked = errors.New("output is locked by another vttscribe run")
)

// Kind names an error class for display.
type Kind string

const (
	KindUsage     Kind = "usage"
	KindPreflight Kind = "preflight"
	KindIO        Kind = "io"
	KindProvider  Kind = "provider"
	KindLocked    Kind = "locked"
	KindCanceled  Kind = "canceled"
	KindOther     Kind = "other"
)

// Wrap tags err with marker and prefixes it with the operation and message.
// A nil marker defaults to ErrIO.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps err onto its Kind.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindOther
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrUsage):
		return KindUsage
	case errors.Is(err, ErrOutputLocked):
		return KindLocked
	case errors.Is(err, ErrPreflight):
		return KindPreflight
	case errors.Is(err, ErrProvider):
		return KindProvider
	case errors.Is(err, ErrIO):
		return KindIO
	default:
		return KindOther
	}
}

// Hint returns a follow-up suggestion for err, or "".
func Hint(err error) string {
	switch Classify(err) {
	case KindPreflight:
		return "run `vttscribe doctor` to check dependencies and directories"
	case KindProvider:
		return "rerun with --log-level debug to see the provider output"
	case KindLocked:
		return "wait for the other run to finish or choose another output path"
	case KindIO:
		return "check free space and permissions on the output directory"
	default:
		return ""
	}
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "run failed"
	}
	return strings.Join(parts, ": ")
}
