package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Save(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, time.Hour)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }

	name, err := s.Save("resume.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "1700000000000-resume.pdf", name)

	data, err := os.ReadFile(s.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
}

func TestStore_Save_FlattensPath(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, time.Hour)

	name, err := s.Save("../../etc/passwd", "image/png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "-passwd"))
	assert.FileExists(t, filepath.Join(dir, name))
}

func TestStore_Save_RejectsUnsupportedType(t *testing.T) {
	s := NewStore(t.TempDir(), time.Hour)

	_, err := s.Save("payload.exe", "application/octet-stream", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestAllowed(t *testing.T) {
	cases := []struct {
		contentType string
		want        bool
	}{
		{"image/jpeg", true},
		{"image/png", true},
		{"application/pdf", true},
		{"audio/mpeg", true},
		{"audio/wav", true},
		{"audio/x-wav", true},
		{"audio/mp3", true},
		{"audio/webm", true},
		{"audio/webm; codecs=opus", true},
		{"IMAGE/PNG", true},
		{"text/html", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Allowed(tc.contentType), tc.contentType)
	}
}

func TestStore_Sweep(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, time.Hour)

	stale := filepath.Join(dir, "100-old.png")
	fresh := filepath.Join(dir, "200-new.png")
	require.NoError(t, os.WriteFile(stale, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("b"), 0o644))

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	removed, err := s.Sweep(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
}

func TestStore_Sweep_MissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "never-created"), time.Hour)

	removed, err := s.Sweep(time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
