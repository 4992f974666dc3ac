package transcription

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The converter validates its input before ever invoking ffmpeg, so these
// tests run without the binary installed.

func TestToWAVMissingInput(t *testing.T) {
	c := &Converter{ffmpegPath: "ffmpeg"}

	_, err := c.ToWAV(context.Background(), filepath.Join(t.TempDir(), "missing.ogg"), "ogg")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestToWAVEmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.ogg")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	c := &Converter{ffmpegPath: "ffmpeg"}

	_, err := c.ToWAV(context.Background(), path, "ogg")
	assert.ErrorIs(t, err, ErrConversion)
}

func TestDemuxerHints(t *testing.T) {
	// Every supported container maps to an ffmpeg demuxer; unknown hints
	// fall through to the generic decode path.
	for _, format := range []string{"ogg", "mp3", "wav", "m4a"} {
		_, ok := ffmpegDemuxers[format]
		assert.True(t, ok, "missing demuxer for %s", format)
	}
	_, ok := ffmpegDemuxers["flac"]
	assert.False(t, ok)
}
