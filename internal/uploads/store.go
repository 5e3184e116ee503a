// Package uploads stores chat attachments on disk with a retention window.
// Files are named `<unix-millis>-<original-name>` so collisions are unlikely
// and age can be recovered from the name alone.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrUnsupportedType is returned when a file's content type is outside the
// image/pdf/audio allowlist.
var ErrUnsupportedType = errors.New("only images, PDFs, and audios are allowed")

var allowedTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
	"audio/mpeg":      {},
	"audio/wav":       {},
	"audio/x-wav":     {},
	"audio/mp3":       {},
	"audio/webm":      {},
}

// Store writes attachments under Dir and reaps those older than TTL.
type Store struct {
	Dir string
	TTL time.Duration

	// now is swapped in tests.
	now func() time.Time
}

// NewStore builds a store rooted at dir. A non-positive ttl defaults to 24h.
func NewStore(dir string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{Dir: dir, TTL: ttl, now: time.Now}
}

// Allowed reports whether contentType may be stored.
func Allowed(contentType string) bool {
	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	_, ok := allowedTypes[strings.ToLower(strings.TrimSpace(mediaType))]
	return ok
}

// Save writes the reader's contents to disk and returns the stored file name.
// The original name is flattened to its base to keep the path inside Dir.
func (s *Store) Save(originalName, contentType string, r io.Reader) (string, error) {
	if !Allowed(contentType) {
		return "", ErrUnsupportedType
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("uploads: create dir: %w", err)
	}

	nowFn := s.now
	if nowFn == nil {
		nowFn = time.Now
	}
	base := filepath.Base(strings.TrimSpace(originalName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	name := strconv.FormatInt(nowFn().UnixMilli(), 10) + "-" + base

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("uploads: create file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("uploads: write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("uploads: close file: %w", err)
	}
	return name, nil
}

// Path returns the on-disk path for a stored file name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, filepath.Base(name))
}

// Sweep removes files whose modification time is older than TTL relative to
// now and returns the number removed. Per-file failures are logged and
// skipped so one bad entry cannot stall retention.
func (s *Store) Sweep(now time.Time) (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("uploads: read dir: %w", err)
	}

	cutoff := now.Add(-s.TTL)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, entry.Name())); err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("upload sweep: remove failed")
			continue
		}
		removed++
	}
	return removed, nil
}
