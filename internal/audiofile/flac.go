package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/cwbudde/algo-echo/dsp/buffer"
)

// FLACSource decodes a FLAC file frame by frame. Samples of a decoded
// frame that do not fit the caller's block are kept for the next read.
type FLACSource struct {
	file     *os.File
	stream   *flac.Stream
	rate     int
	channels int
	bitDepth int
	scale    pcmScale

	current *frame.Frame
	offset  int
}

// OpenFLAC opens a FLAC file for reading.
func OpenFLAC(path string) (*FLACSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open %s: %w", path, err)
	}

	stream, err := flac.New(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("audiofile: decode flac %s: %w", path, err)
	}

	info := stream.Info
	bitDepth := int(info.BitsPerSample)
	if bitDepth < 4 || bitDepth > 32 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %d", ErrBitDepth, bitDepth)
	}

	return &FLACSource{
		file:     f,
		stream:   stream,
		rate:     int(info.SampleRate),
		channels: int(info.NChannels),
		bitDepth: bitDepth,
		// FLAC samples are signed at every depth.
		scale: pcmScale{full: float64(int64(1)<<(bitDepth-1) - 1)},
	}, nil
}

// SampleRate returns the sample rate in Hz.
func (s *FLACSource) SampleRate() int { return s.rate }

// NumChannels returns the channel count.
func (s *FLACSource) NumChannels() int { return s.channels }

// BitDepth returns the encoded bit depth.
func (s *FLACSource) BitDepth() int { return s.bitDepth }

// ReadFrames decodes up to block.Len() frames into block.
func (s *FLACSource) ReadFrames(block *buffer.Block) (int, error) {
	if err := checkChannels(s.channels, block.NumChannels()); err != nil {
		return 0, err
	}

	n := 0
	for n < block.Len() {
		if s.current == nil || s.offset >= int(s.current.BlockSize) {
			next, err := s.stream.ParseNext()
			if errors.Is(err, io.EOF) {
				s.current = nil
				break
			}
			if err != nil {
				return 0, fmt.Errorf("audiofile: read flac: %w", err)
			}
			s.current, s.offset = next, 0
			continue
		}

		count := min(block.Len()-n, int(s.current.BlockSize)-s.offset)
		for ch := 0; ch < s.channels; ch++ {
			src := s.current.Subframes[ch].Samples[s.offset : s.offset+count]
			dst := block.Channel(ch)[n : n+count]
			for i, v := range src {
				dst[i] = s.scale.toFloat(int(v))
			}
		}

		n += count
		s.offset += count
	}

	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// Close closes the underlying file.
func (s *FLACSource) Close() error {
	return s.file.Close()
}
