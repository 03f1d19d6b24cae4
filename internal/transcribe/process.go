package transcribe

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// StartFunc launches name with args and returns its stdout stream plus a wait
// function. wait reports a non-zero exit together with the stderr tail.
type StartFunc func(ctx context.Context, name string, args ...string) (stdout io.ReadCloser, wait func() error, err error)

const stderrTailLimit = 8 << 10

func execStart(ctx context.Context, name string, args ...string) (io.ReadCloser, func() error, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	cmd.Env = os.Environ()
	stderr := &tailBuffer{limit: stderrTailLimit}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: stdout pipe: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("%s: start: %w", name, err)
	}
	wait := func() error {
		if err := cmd.Wait(); err != nil {
			if tail := strings.TrimSpace(stderr.String()); tail != "" {
				return fmt.Errorf("%s: %w: %s", name, err, tail)
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
	return stdout, wait, nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.limit; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
