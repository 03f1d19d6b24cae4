package webvtt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Cue is a parsed cue block.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Document is a parsed WebVTT file.
type Document struct {
	Cues []Cue
}

// Span returns the first cue start and the latest cue end.
func (d Document) Span() (float64, float64) {
	if len(d.Cues) == 0 {
		return 0, 0
	}
	first := d.Cues[0].Start
	var last float64
	for _, cue := range d.Cues {
		if cue.Start < first {
			first = cue.Start
		}
		if cue.End > last {
			last = cue.End
		}
	}
	return first, last
}

// ParseFile reads and parses the document at path.
func ParseFile(path string) (Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open vtt: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads a WebVTT document. Cue identifiers, NOTE blocks and cue
// settings after the end timestamp are tolerated and dropped; multi-line cue
// payloads are joined with newlines.
func Parse(r io.Reader) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var doc Document
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return doc, fmt.Errorf("read vtt: %w", err)
		}
		return doc, fmt.Errorf("parse vtt: empty document")
	}
	header := strings.TrimPrefix(scanner.Text(), "\ufeff")
	if header != "WEBVTT" && !strings.HasPrefix(header, "WEBVTT ") && !strings.HasPrefix(header, "WEBVTT\t") {
		return doc, fmt.Errorf("parse vtt: missing WEBVTT header")
	}

	var block []string
	line := 1
	flush := func() error {
		defer func() { block = block[:0] }()
		if len(block) == 0 {
			return nil
		}
		if strings.HasPrefix(block[0], "NOTE") || strings.HasPrefix(block[0], "STYLE") || strings.HasPrefix(block[0], "REGION") {
			return nil
		}
		timing := 0
		if !strings.Contains(block[0], "-->") {
			timing = 1
		}
		if timing >= len(block) || !strings.Contains(block[timing], "-->") {
			return fmt.Errorf("parse vtt: line %d: cue without timing line", line)
		}
		startText, rest, _ := strings.Cut(block[timing], "-->")
		endFields := strings.Fields(rest)
		if len(endFields) == 0 {
			return fmt.Errorf("parse vtt: line %d: missing end timestamp", line)
		}
		start, err := ParseTimestamp(startText)
		if err != nil {
			return fmt.Errorf("parse vtt: line %d: %w", line, err)
		}
		end, err := ParseTimestamp(endFields[0])
		if err != nil {
			return fmt.Errorf("parse vtt: line %d: %w", line, err)
		}
		doc.Cues = append(doc.Cues, Cue{
			Start: start,
			End:   end,
			Text:  strings.Join(block[timing+1:], "\n"),
		})
		return nil
	}

	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			if err := flush(); err != nil {
				return doc, err
			}
			continue
		}
		block = append(block, text)
	}
	if err := scanner.Err(); err != nil {
		return doc, fmt.Errorf("read vtt: %w", err)
	}
	if err := flush(); err != nil {
		return doc, err
	}
	return doc, nil
}
