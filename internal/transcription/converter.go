package transcription

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrConversion signals that the audio could not be normalized to WAV.
var ErrConversion = errors.New("audio conversion failed")

// whisperSampleRate is the sample rate the transcription endpoint expects.
const whisperSampleRate = 16000

// Converter normalizes arbitrary voice-note containers (ogg/opus, mp3, m4a,
// wav) into mono 16 kHz WAV using ffmpeg.
type Converter struct {
	ffmpegPath string
}

// NewConverter verifies ffmpeg is available on PATH.
func NewConverter() (*Converter, error) {
	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}
	return &Converter{ffmpegPath: ffmpegPath}, nil
}

// ffmpegDemuxers maps container hints to ffmpeg demuxer names.
var ffmpegDemuxers = map[string]string{
	"ogg": "ogg",
	"mp3": "mp3",
	"wav": "wav",
	"m4a": "mp4",
}

// ToWAV converts the audio at inputPath into a new mono 16 kHz WAV file and
// returns its path. The format hint may be absent or wrong; a hinted decode
// is attempted first and a generic decode on failure. The caller must remove
// the returned file on every exit path.
func (c *Converter) ToWAV(ctx context.Context, inputPath, formatHint string) (string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: input file not found: %v", ErrConversion, err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: input file is empty", ErrConversion)
	}

	outPath := filepath.Join(os.TempDir(), "cerebro_"+uuid.New().String()+".wav")

	if demuxer, ok := ffmpegDemuxers[formatHint]; ok {
		if err := c.run(ctx, outPath, "-f", demuxer, "-i", inputPath); err == nil {
			return outPath, nil
		}
		log.Printf("Hinted decode (%s) failed, falling back to generic decode", formatHint)
	}

	if err := c.run(ctx, outPath, "-i", inputPath); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return outPath, nil
}

func (c *Converter) run(ctx context.Context, outPath string, inputArgs ...string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	args := append([]string{"-y"}, inputArgs...)
	args = append(args,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", whisperSampleRate),
		"-f", "wav",
		outPath,
	)

	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("ffmpeg: %w: %s", err, stderr.String())
	}

	// Never hand a zero-byte "success" to the transcription client.
	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		os.Remove(outPath)
		return fmt.Errorf("ffmpeg produced no output")
	}
	return nil
}
