package transcriptcache

import (
	"errors"
	"fmt"
	"strings"

	"vttscribe/internal/fileutil"
	"vttscribe/internal/transcribe"
)

// Key identifies one cached transcript.
type Key struct {
	MediaDigest        string
	MediaSize          int64
	Provider           string
	OptionsFingerprint string
}

// String returns a short human-readable form for logs.
func (k Key) String() string {
	digest := k.MediaDigest
	if len(digest) > 12 {
		digest = digest[:12]
	}
	fp := k.OptionsFingerprint
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fmt.Sprintf("%s/%s/%s", digest, k.Provider, fp)
}

func (k Key) validate() error {
	if strings.TrimSpace(k.MediaDigest) == "" {
		return errors.New("cache key: media digest is required")
	}
	if strings.TrimSpace(k.Provider) == "" {
		return errors.New("cache key: provider is required")
	}
	if strings.TrimSpace(k.OptionsFingerprint) == "" {
		return errors.New("cache key: options fingerprint is required")
	}
	return nil
}

// KeyFor hashes the media file and combines it with the provider and the
// normalized options.
func KeyFor(mediaPath, provider string, opts transcribe.Options) (Key, error) {
	digest, size, err := fileutil.HashFile(mediaPath)
	if err != nil {
		return Key{}, fmt.Errorf("cache key: %w", err)
	}
	return Key{
		MediaDigest:        digest,
		MediaSize:          size,
		Provider:           provider,
		OptionsFingerprint: opts.Fingerprint(),
	}, nil
}
