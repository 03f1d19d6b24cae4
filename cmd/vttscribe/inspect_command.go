package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vttscribe/internal/webvtt"
)

const inspectTextWidth = 60

func newInspectCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:         "inspect <file.vtt>",
		Short:       "Summarise a WebVTT file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			doc, err := webvtt.ParseFile(path)
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			first, last := doc.Span()
			empty := 0
			for _, cue := range doc.Cues {
				if cue.Text == "" {
					empty++
				}
			}
			fmt.Fprintf(out, "File:  %s (%s)\n", path, humanize.Bytes(uint64(info.Size())))
			fmt.Fprintf(out, "Cues:  %d (%d empty)\n", len(doc.Cues), empty)
			fmt.Fprintf(out, "Span:  %s --> %s\n", webvtt.FormatTimestamp(first), webvtt.FormatTimestamp(last))
			if len(doc.Cues) == 0 || limit == 0 {
				return nil
			}

			shown := doc.Cues
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			rows := make([][]string, 0, len(shown))
			for i, cue := range shown {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					webvtt.FormatTimestamp(cue.Start),
					webvtt.FormatTimestamp(cue.End),
					truncate(strings.ReplaceAll(cue.Text, "\n", " "), inspectTextWidth),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Start", "End", "Text"}, rows, []columnAlignment{alignRight}))
			if remaining := len(doc.Cues) - len(shown); remaining > 0 {
				fmt.Fprintf(out, "... %d more %s\n", remaining, plural(remaining, "cue", "cues"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of cues to list (negative lists all)")
	return cmd
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-3]) + "..."
}
