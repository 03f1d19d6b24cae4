package transcribe

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
	"testing"
	"time"
)

type fakeStart struct {
	output  string
	waitErr error
	name    string
	args    []string
	waited  int
}

func (f *fakeStart) start(_ context.Context, name string, args ...string) (io.ReadCloser, func() error, error) {
	f.name = name
	f.args = args
	return io.NopCloser(strings.NewReader(f.output)), func() error {
		f.waited++
		return f.waitErr
	}, nil
}

func argValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestFasterWhisperStreamsSegments(t *testing.T) {
	fake := &fakeStart{output: strings.Join([]string{
		`{"type":"info","language":"en","language_probability":0.98,"duration":12.5}`,
		``,
		`{"type":"segment","start":0.0,"end":1.5,"text":" Hello  world"}`,
		`{"type":"progress","percent":50}`,
		`{"type":"segment","start":1.5,"end":3.0,"text":" foo bar "}`,
	}, "\n")}
	provider := NewFasterWhisper("", nil)
	provider.WithStarter(fake.start)

	opts := DefaultOptions()
	opts.Language = "English"
	opts.VADFilter = false
	res, err := provider.Transcribe(context.Background(), "/media/talk.mp4", opts)
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	defer res.Close()

	if res.Info.Language != "en" || res.Info.Duration != 12.5 {
		t.Fatalf("unexpected info %+v", res.Info)
	}
	var segments []Segment
	for seg, err := range res.Segments() {
		if err != nil {
			t.Fatalf("segment error: %v", err)
		}
		segments = append(segments, seg)
	}
	if len(segments) != 2 || segments[1].Text != " foo bar " || segments[0].End != 1.5 {
		t.Fatalf("unexpected segments %+v", segments)
	}

	if fake.name != DefaultPythonBinary {
		t.Fatalf("expected python3, got %q", fake.name)
	}
	if fake.args[0] != "-c" || !strings.Contains(fake.args[1], "WhisperModel") {
		t.Fatalf("expected embedded helper script, got %q", fake.args[:2])
	}
	checks := map[string]string{
		"--input":          "/media/talk.mp4",
		"--model":          DefaultModel,
		"--language":       "en",
		"--beam-size":      "5",
		"--vad-filter":     "false",
		"--min-silence-ms": "400",
		"--device":         DeviceCPU,
	}
	for flag, want := range checks {
		if got := argValue(fake.args, flag); got != want {
			t.Fatalf("%s = %q, want %q", flag, got, want)
		}
	}
	if fake.waited != 1 {
		t.Fatalf("expected helper to be waited once, got %d", fake.waited)
	}
}

func TestFasterWhisperExitFailureBeforeInfo(t *testing.T) {
	fake := &fakeStart{waitErr: errors.New("exit status 1: CUDA out of memory")}
	provider := NewFasterWhisper("python3.12", nil)
	provider.WithStarter(fake.start)

	_, err := provider.Transcribe(context.Background(), "in.wav", DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Fatalf("expected exit error with stderr, got %v", err)
	}
	if fake.name != "python3.12" {
		t.Fatalf("expected configured python binary, got %q", fake.name)
	}
}

func TestFasterWhisperHelperErrorRecord(t *testing.T) {
	fake := &fakeStart{output: `{"type":"error","message":"faster-whisper is not installed"}` + "\n", waitErr: errors.New("exit status 2")}
	provider := NewFasterWhisper("", nil)
	provider.WithStarter(fake.start)

	_, err := provider.Transcribe(context.Background(), "in.wav", DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "not installed") {
		t.Fatalf("expected helper error message, got %v", err)
	}
}

func TestFasterWhisperExitFailureAfterSegments(t *testing.T) {
	fake := &fakeStart{
		output:  `{"type":"info","language":"en"}` + "\n" + `{"type":"segment","start":0,"end":1,"text":"a"}` + "\n",
		waitErr: errors.New("exit status 1: corrupt stream"),
	}
	provider := NewFasterWhisper("", nil)
	provider.WithStarter(fake.start)

	res, err := provider.Transcribe(context.Background(), "in.wav", DefaultOptions())
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	defer res.Close()
	var count int
	var lastErr error
	for _, err := range res.Segments() {
		if err != nil {
			lastErr = err
			break
		}
		count++
	}
	if count != 1 || lastErr == nil || !strings.Contains(lastErr.Error(), "corrupt stream") {
		t.Fatalf("expected one segment then exit error, got count=%d err=%v", count, lastErr)
	}
}

func TestFasterWhisperMalformedRecord(t *testing.T) {
	fake := &fakeStart{output: `{"type":"info"}` + "\n" + `{"type":"segment","start":NaN}` + "\n"}
	provider := NewFasterWhisper("", nil)
	provider.WithStarter(fake.start)

	res, err := provider.Transcribe(context.Background(), "in.wav", DefaultOptions())
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	defer res.Close()
	for _, err := range res.Segments() {
		if err == nil || !strings.Contains(err.Error(), "malformed record") {
			t.Fatalf("expected malformed record error, got %v", err)
		}
	}
}

func TestFasterWhisperRejectsInvalidOptions(t *testing.T) {
	fake := &fakeStart{}
	provider := NewFasterWhisper("", nil)
	provider.WithStarter(fake.start)

	opts := DefaultOptions()
	opts.BeamWidth = 0
	if _, err := provider.Transcribe(context.Background(), "in.wav", opts); err == nil {
		t.Fatal("expected validation error")
	}
	if _, err := provider.Transcribe(context.Background(), " ", DefaultOptions()); err == nil {
		t.Fatal("expected media path error")
	}
	if fake.name != "" {
		t.Fatal("helper should not start for invalid input")
	}
}

func TestFasterWhisperStartFailure(t *testing.T) {
	provider := NewFasterWhisper("", nil)
	provider.WithStarter(func(context.Context, string, ...string) (io.ReadCloser, func() error, error) {
		return nil, nil, errors.New("executable file not found in $PATH")
	})
	if _, err := provider.Transcribe(context.Background(), "in.wav", DefaultOptions()); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected start error, got %v", err)
	}
}

func TestTailBufferKeepsTail(t *testing.T) {
	buf := &tailBuffer{limit: 4}
	_, _ = buf.Write([]byte("abc"))
	_, _ = buf.Write([]byte("defg"))
	if got := buf.String(); got != "defg" {
		t.Fatalf("expected tail defg, got %q", got)
	}
}

func TestExecStartCancelKillsChild(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}
	ctx, cancel := context.WithCancel(context.Background())
	stdout, wait, err := execStart(ctx, "sleep", "30")
	if err != nil {
		t.Fatalf("execStart: %v", err)
	}
	defer stdout.Close()

	done := make(chan error, 1)
	go func() {
		_, _ = io.Copy(io.Discard, stdout)
		done <- wait()
	}()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error from a killed child")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("child was not killed after cancellation")
	}
}
