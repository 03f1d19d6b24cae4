package ffprobe

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
)

const samplePayload = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "duration": "60.0"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "duration": "59.5", "sample_rate": "48000", "channels": 2, "tags": {"language": "eng"}}
  ],
  "format": {"filename": "talk.mp4", "duration": "60.021", "size": "1000", "format_name": "mov,mp4"}
}`

func TestProberInspect(t *testing.T) {
	var gotArgs []string
	p := New("")
	p.WithRunner(func(_ context.Context, binary string, args ...string) ([]byte, error) {
		if binary != DefaultBinary {
			t.Fatalf("binary = %q", binary)
		}
		gotArgs = args
		return []byte(samplePayload), nil
	})

	result, err := p.Inspect(context.Background(), "/media/talk.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "/media/talk.mp4" || !slices.Contains(gotArgs, "--") {
		t.Fatalf("path must follow --: %v", gotArgs)
	}
	if result.DurationSeconds() != 60.021 {
		t.Fatalf("duration = %v", result.DurationSeconds())
	}
	audio := result.AudioStreams()
	if len(audio) != 1 || audio[0].Tags.Language != "eng" {
		t.Fatalf("unexpected audio streams: %+v", audio)
	}
	if err := result.RequireAudio(); err != nil {
		t.Fatalf("RequireAudio: %v", err)
	}
}

func TestProberInspectErrors(t *testing.T) {
	p := New("ffprobe")
	if _, err := p.Inspect(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}

	boom := errors.New("exit status 1")
	p.WithRunner(func(context.Context, string, ...string) ([]byte, error) { return nil, boom })
	if _, err := p.Inspect(context.Background(), "x.mp4"); !errors.Is(err, boom) {
		t.Fatalf("expected runner error, got %v", err)
	}

	p.WithRunner(func(context.Context, string, ...string) ([]byte, error) { return []byte("not json"), nil })
	if _, err := p.Inspect(context.Background(), "x.mp4"); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestDurationSeconds(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   float64
	}{
		{"format", Result{Format: Format{Duration: "12.5"}}, 12.5},
		{"stream fallback", Result{
			Format:  Format{Duration: "N/A"},
			Streams: []Stream{{CodecType: "audio", Duration: "3.0"}, {CodecType: "audio", Duration: "7.25"}},
		}, 7.25},
		{"video ignored", Result{Streams: []Stream{{CodecType: "video", Duration: "9"}}}, 0},
		{"garbage", Result{Format: Format{Duration: "bad"}}, 0},
		{"negative", Result{Format: Format{Duration: "-4"}}, 0},
		{"empty", Result{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.DurationSeconds(); got != tt.want {
				t.Fatalf("DurationSeconds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequireAudio(t *testing.T) {
	result := Result{Streams: []Stream{{CodecType: "video"}}}
	if err := result.RequireAudio(); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("expected ErrNoAudio, got %v", err)
	}
}
