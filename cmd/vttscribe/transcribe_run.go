package main

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"vttscribe/internal/config"
	"vttscribe/internal/failure"
	"vttscribe/internal/fileutil"
	"vttscribe/internal/logging"
	"vttscribe/internal/media/ffprobe"
	"vttscribe/internal/preflight"
	"vttscribe/internal/transcribe"
	"vttscribe/internal/transcriptcache"
	"vttscribe/internal/webvtt"
)

// Replaced in tests.
var (
	newProvider     = transcribe.New
	requireProvider = preflight.RequireProvider
	probeMedia      = ffprobe.Inspect
)

func (c *commandContext) runTranscription(cmd *cobra.Command, inputArg, outputArg string) error {
	cfg, err := c.ensureConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := c.newLogger(cfg)
	if err != nil {
		return err
	}
	runID := logging.NewCorrelationID()
	ctx := logging.WithCorrelationID(cmd.Context(), runID)
	logger = logging.NewComponentLogger(logger, "cli").With(logging.String(logging.FieldCorrelationID, runID))

	input, err := filepath.Abs(inputArg)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	output, err := filepath.Abs(outputArg)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if err := preflight.CheckInput(input); err != nil {
		return err
	}
	outDir, err := fileutil.EnsureParentDir(output)
	if err != nil {
		return failure.Wrap(failure.ErrIO, "prepare output", "", err)
	}
	if err := preflight.CheckOutputDir(outDir); err != nil {
		return err
	}

	lockPath := fileutil.LockPath(output)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", failure.ErrOutputLocked, output)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	opts, err := cfg.TranscribeOptions().Normalize()
	if err != nil {
		return fmt.Errorf("transcription options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("transcription options: %w", err)
	}

	logger.Info("transcription starting",
		logging.String(logging.FieldEventType, "transcription_start"),
		logging.String("input", input),
		logging.String("output", output),
		logging.String("provider", cfg.Transcription.Provider),
		logging.String("model", opts.ModelVariant),
		logging.String("language", displayLanguage(opts.Language)),
	)

	store, key := openCache(ctx, cfg, input, opts, logger)
	if store != nil {
		defer store.Close()
	}

	var total float64
	if probe, err := probeMedia(ctx, cfg.Transcription.FFprobeBinary, input); err != nil {
		logging.WarnWithContext(logger, "media probe failed", "media_probe_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install ffprobe or set transcription.ffprobe_binary"),
			logging.String(logging.FieldImpact, "progress is reported without a total"),
		)
	} else {
		if err := probe.RequireAudio(); err != nil {
			return failure.Wrap(failure.ErrPreflight, "probe "+input, "", err)
		}
		total = probe.DurationSeconds()
		logger.Debug("media probed",
			logging.Float64("duration_seconds", total),
			logging.Int("audio_streams", len(probe.AudioStreams())),
		)
	}

	started := time.Now()
	source := "provider"
	var (
		result   *transcribe.Result
		recorder *transcriptcache.Recorder
	)
	if store != nil {
		entry, hit, lookupErr := store.Lookup(ctx, key)
		switch {
		case lookupErr != nil:
			logging.WarnWithContext(logger, "transcript cache lookup failed", "cache_lookup_failed",
				logging.Error(lookupErr),
				logging.String(logging.FieldImpact, "transcribing without cache"),
			)
		case hit:
			source = "cache"
			result = entry.Result()
			logger.Info("transcript cache hit",
				logging.String(logging.FieldEventType, "cache_hit"),
				logging.String("key", key.String()),
				logging.Int("segments", len(entry.Segments)),
			)
		}
	}

	if result == nil {
		if err := requireProvider(cfg); err != nil {
			return err
		}
		provider, err := newProvider(cfg.ProviderConfig(), logger)
		if err != nil {
			return err
		}
		result, err = provider.Transcribe(ctx, input, opts)
		if err != nil {
			return failure.Wrap(failure.ErrProvider, provider.Name(), "start transcription", err)
		}
		if store != nil {
			recorder = store.NewRecorder(key, input, result.Info)
		}
	}
	defer result.Close()

	if result.Info.Language != "" {
		logger.Info("language detected",
			logging.String("language", result.Info.Language),
			logging.Float64("probability", result.Info.LanguageProbability),
		)
	}
	if total <= 0 {
		total = result.Info.Duration
	}

	segments := markProviderErrors(result.Segments())
	if recorder != nil {
		segments = recorder.Wrap(segments)
	}
	progress := newProgressReporter(cmd.ErrOrStderr(), total, logger)
	segments = transcribe.Tap(segments, progress.Observe)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transcribing %s -> %s using %s\n", input, output, opts.ModelVariant)
	stats, err := webvtt.WriteFile(output, segments)
	progress.Finish()
	if err != nil {
		if errors.Is(err, failure.ErrProvider) || errors.Is(err, webvtt.ErrInvalidTimestamp) {
			return failure.Wrap(failure.ErrProvider, "write "+output, "", err)
		}
		return failure.Wrap(failure.ErrIO, "write "+output, "", err)
	}
	if err := result.Close(); err != nil {
		return failure.Wrap(failure.ErrProvider, "close provider", "", err)
	}

	if recorder != nil {
		if stored, err := recorder.Commit(ctx); err != nil {
			logging.WarnWithContext(logger, "transcript cache store failed", "cache_store_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "next run will transcribe again"),
			)
		} else if stored {
			logger.Debug("transcript cached", logging.String("key", key.String()))
		}
	}

	elapsed := time.Since(started).Round(time.Millisecond)
	logger.Info("transcription complete",
		logging.String(logging.FieldEventType, "transcription_complete"),
		logging.String("source", source),
		logging.Int("cues", stats.Cues),
		logging.Int64("bytes", stats.Bytes),
		logging.Int("empty_cues", stats.EmptyCues),
		logging.Int("adjusted_ends", stats.AdjustedEnds),
		logging.Duration("elapsed", elapsed),
	)
	fmt.Fprintf(out, "Wrote %d %s (%s, ends at %s) to %s in %s\n",
		stats.Cues, plural(stats.Cues, "cue", "cues"),
		humanize.Bytes(uint64(stats.Bytes)),
		webvtt.FormatTimestamp(stats.LastCueEnd),
		output, elapsed)
	return nil
}

// markProviderErrors tags errors yielded by seq so they can be told apart
// from write failures.
func markProviderErrors(seq iter.Seq2[transcribe.Segment, error]) iter.Seq2[transcribe.Segment, error] {
	return func(yield func(transcribe.Segment, error) bool) {
		for seg, err := range seq {
			if err != nil && !errors.Is(err, failure.ErrProvider) {
				err = fmt.Errorf("%w: %w", failure.ErrProvider, err)
			}
			if !yield(seg, err) {
				return
			}
		}
	}
}

// openCache returns nil when caching is disabled or unavailable. Cache
// failures never abort a run.
func openCache(ctx context.Context, cfg *config.Config, input string, opts transcribe.Options, logger *slog.Logger) (*transcriptcache.Store, transcriptcache.Key) {
	if !cfg.Cache.Enabled {
		return nil, transcriptcache.Key{}
	}
	key, err := transcriptcache.KeyFor(input, cfg.Transcription.Provider, opts)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache key failed", "cache_key_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "transcribing without cache"),
		)
		return nil, transcriptcache.Key{}
	}
	store, err := transcriptcache.Open(ctx, cfg.Cache.Path)
	if err != nil {
		logging.WarnWithContext(logger, "transcript cache unavailable", "cache_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run `vttscribe cache purge` or delete the cache file"),
			logging.String(logging.FieldImpact, "transcribing without cache"),
		)
		return nil, transcriptcache.Key{}
	}
	return store, key
}

func displayLanguage(code string) string {
	if code == "" {
		return "auto"
	}
	return code
}
