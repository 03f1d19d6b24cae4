package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"vttscribe/internal/transcriptcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the transcript cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePurgeCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show transcript cache usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(cmd, ctx, func(store *transcriptcache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				rows := [][]string{
					{"Path", stats.Path},
					{"Entries", strconv.Itoa(stats.Entries)},
					{"Segments", strconv.Itoa(stats.Segments)},
					{"Size", humanize.Bytes(uint64(stats.SizeBytes))},
				}
				if !stats.Oldest.IsZero() {
					rows = append(rows,
						[]string{"Oldest", humanize.Time(stats.Oldest)},
						[]string{"Newest", humanize.Time(stats.Newest)},
					)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Cache", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newCachePurgeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove every cached transcript",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(cmd, ctx, func(store *transcriptcache.Store) error {
				removed, err := store.Purge(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached %s from %s\n",
					removed, plural(int(removed), "transcript", "transcripts"), store.Path())
				return nil
			})
		},
	}
}

func withCacheStore(cmd *cobra.Command, ctx *commandContext, fn func(*transcriptcache.Store) error) error {
	cfg, err := ctx.ensureConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.Cache.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Transcript cache is disabled (cache.enabled = false)")
		return nil
	}
	store, err := transcriptcache.Open(cmd.Context(), cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("open transcript cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}
