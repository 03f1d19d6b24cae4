// Package transcriptcache persists finished transcripts in SQLite so a
// repeated run over the same media and options can skip the provider.
//
// Entries are keyed by the SHA-256 of the media file, the provider name and
// the options fingerprint. A Recorder tees segments from a live provider
// sequence and only stores them once the sequence has been drained without
// error, so interrupted or failed runs never leave partial transcripts.
//
// The database is disposable. Its layout version lives in PRAGMA
// user_version; an older cache is dropped and recreated on open, while a
// cache written by a newer build is refused with ErrSchemaMismatch.
package transcriptcache
