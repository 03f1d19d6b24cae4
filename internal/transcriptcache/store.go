package transcriptcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"vttscribe/internal/transcribe"
)

// Entry is a stored transcript.
type Entry struct {
	Key       Key
	MediaPath string
	Info      transcribe.Info
	Segments  []transcribe.Segment
	CreatedAt time.Time
}

// Result replays the entry as a provider result so it can flow through the
// same serializer as a live transcription.
func (e Entry) Result() *transcribe.Result {
	return transcribe.NewResult(e.Info, transcribe.FromSlice(e.Segments), nil)
}

// Stats summarises the cache contents.
type Stats struct {
	Path      string
	Entries   int
	Segments  int
	SizeBytes int64
	Oldest    time.Time
	Newest    time.Time
}

// createdAtLayout is fixed width so that created_at sorts as text in time
// order.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages transcript persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("cache path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps the per-connection pragmas below in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Lookup fetches the transcript stored under key. The boolean is false when
// no entry exists.
func (s *Store) Lookup(ctx context.Context, key Key) (Entry, bool, error) {
	if err := key.validate(); err != nil {
		return Entry{}, false, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT media_path, language, language_probability, duration, segments_json, created_at
         FROM transcripts
         WHERE media_digest = ? AND provider = ? AND options_fingerprint = ?`,
		key.MediaDigest, key.Provider, key.OptionsFingerprint,
	)

	var (
		mediaPath    sql.NullString
		lang         sql.NullString
		probability  float64
		duration     float64
		segmentsJSON string
		createdRaw   string
	)
	err := row.Scan(&mediaPath, &lang, &probability, &duration, &segmentsJSON, &createdRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup transcript: %w", err)
	}

	var segments []transcribe.Segment
	if err := json.Unmarshal([]byte(segmentsJSON), &segments); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached segments: %w", err)
	}
	entry := Entry{
		Key:       key,
		MediaPath: mediaPath.String,
		Info: transcribe.Info{
			Language:            lang.String,
			LanguageProbability: probability,
			Duration:            duration,
		},
		Segments: segments,
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, true, nil
}

// Put stores entry, replacing any transcript under the same key.
func (s *Store) Put(ctx context.Context, entry Entry) error {
	if err := entry.Key.validate(); err != nil {
		return err
	}
	segments := entry.Segments
	if segments == nil {
		segments = []transcribe.Segment{}
	}
	payload, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("encode segments: %w", err)
	}
	created := entry.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transcripts (
            media_digest, provider, options_fingerprint, media_path, media_size,
            language, language_probability, duration, segment_count, segments_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Key.MediaDigest,
		entry.Key.Provider,
		entry.Key.OptionsFingerprint,
		nullableString(entry.MediaPath),
		entry.Key.MediaSize,
		nullableString(entry.Info.Language),
		entry.Info.LanguageProbability,
		entry.Info.Duration,
		len(segments),
		string(payload),
		created.UTC().Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}
	return nil
}

// Purge removes every cached transcript and returns how many were deleted.
func (s *Store) Purge(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transcripts`)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return removed, fmt.Errorf("checkpoint cache: %w", err)
	}
	return removed, nil
}

// Stats reports entry counts and the on-disk size of the database.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	var (
		segments sql.NullInt64
		oldest   sql.NullString
		newest   sql.NullString
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), SUM(segment_count), MIN(created_at), MAX(created_at) FROM transcripts`)
	if err := row.Scan(&stats.Entries, &segments, &oldest, &newest); err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}
	stats.Segments = int(segments.Int64)
	if t, err := time.Parse(time.RFC3339Nano, oldest.String); err == nil {
		stats.Oldest = t
	}
	if t, err := time.Parse(time.RFC3339Nano, newest.String); err == nil {
		stats.Newest = t
	}
	for _, suffix := range []string{"", "-wal", "-shm"} {
		if info, err := os.Stat(s.path + suffix); err == nil {
			stats.SizeBytes += info.Size()
		}
	}
	return stats, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
