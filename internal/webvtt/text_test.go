package webvtt

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"  a   b\n c ", "a b c"},
		{"Hello  world", "Hello world"},
		{" foo bar ", "foo bar"},
		{"tab\tand\r\nnewline", "tab and newline"},
		{"non\u00a0breaking", "non breaking"},
		{"bad\xffbyte", "bad\uFFFDbyte"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Fatalf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{"", " x ", "a\n\nb", "\t\tlead", "trail  ", "multi   space   words", "mixed \u2003unicode\u3000space", "bad\xc3("}
	for _, in := range inputs {
		once := NormalizeText(in)
		if twice := NormalizeText(once); twice != once {
			t.Fatalf("NormalizeText not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
