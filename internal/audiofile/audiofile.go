package audiofile

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-echo/dsp/buffer"
)

// Errors returned by sources and sinks.
var (
	ErrUnsupportedFormat = errors.New("audiofile: unsupported file format")
	ErrInvalidWAV        = errors.New("audiofile: invalid WAV file")
	ErrBitDepth          = errors.New("audiofile: unsupported bit depth")
	ErrChannelMismatch   = errors.New("audiofile: channel count mismatch")
	ErrInvalidFormat     = errors.New("audiofile: sample rate and channel count must be positive")
)

// Source delivers decoded audio as normalized float frames.
type Source interface {
	SampleRate() int
	NumChannels() int
	// BitDepth is the bit depth of the encoded samples.
	BitDepth() int
	// ReadFrames fills block from its first frame and returns the number of
	// frames read. It returns 0 and io.EOF once the source is exhausted.
	ReadFrames(block *buffer.Block) (int, error)
	Close() error
}

// Sink consumes float frames.
type Sink interface {
	WriteFrames(v buffer.View) error
	Close() error
}

// Open opens path with the decoder selected by its extension.
func Open(path string) (Source, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		return OpenWAV(path)
	case ".mp3":
		return OpenMP3(path)
	case ".flac":
		return OpenFLAC(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// pcmScale maps between integer PCM and [-1, 1]. 8-bit PCM is unsigned.
type pcmScale struct {
	full   float64
	offset int
}

func newPCMScale(bitDepth int) (pcmScale, error) {
	switch bitDepth {
	case 8:
		return pcmScale{full: 127, offset: 128}, nil
	case 16, 24, 32:
		return pcmScale{full: float64(int64(1)<<(bitDepth-1) - 1)}, nil
	default:
		return pcmScale{}, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}
}

func (s pcmScale) toFloat(v int) float64 {
	return float64(v-s.offset) / s.full
}

// toInt clamps x to [-1, 1] and reports whether it had to. NaN maps to 0
// and counts as clipped.
func (s pcmScale) toInt(x float64) (int, bool) {
	clipped := false
	switch {
	case math.IsNaN(x):
		x, clipped = 0, true
	case x > 1:
		x, clipped = 1, true
	case x < -1:
		x, clipped = -1, true
	}
	return int(math.Round(x*s.full)) + s.offset, clipped
}

func checkChannels(want, got int) error {
	if want != got {
		return fmt.Errorf("%w: source has %d channels, block has %d", ErrChannelMismatch, want, got)
	}
	return nil
}
