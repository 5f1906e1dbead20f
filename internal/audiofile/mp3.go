package audiofile

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"

	"github.com/cwbudde/algo-echo/dsp/buffer"
)

const (
	mp3Channels       = 2
	mp3BitDepth       = 16
	mp3BytesPerSample = 2
	mp3BytesPerFrame  = mp3Channels * mp3BytesPerSample
)

// MP3Source decodes an MP3 file. The decoder always produces 16-bit
// stereo.
type MP3Source struct {
	file    *os.File
	decoder *mp3.Decoder
	scale   pcmScale

	raw     []byte
	floats  []float64
	pending int
	eof     bool
}

// OpenMP3 opens an MP3 file for reading.
func OpenMP3(path string) (*MP3Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open %s: %w", path, err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("audiofile: decode mp3 %s: %w", path, err)
	}

	scale, _ := newPCMScale(mp3BitDepth)

	return &MP3Source{file: f, decoder: decoder, scale: scale}, nil
}

// SampleRate returns the sample rate in Hz.
func (s *MP3Source) SampleRate() int { return s.decoder.SampleRate() }

// NumChannels returns 2.
func (s *MP3Source) NumChannels() int { return mp3Channels }

// BitDepth returns 16.
func (s *MP3Source) BitDepth() int { return mp3BitDepth }

// ReadFrames decodes up to block.Len() frames into block.
func (s *MP3Source) ReadFrames(block *buffer.Block) (int, error) {
	if err := checkChannels(mp3Channels, block.NumChannels()); err != nil {
		return 0, err
	}

	want := block.Len() * mp3BytesPerFrame
	if want == 0 {
		return 0, nil
	}

	if cap(s.raw) < want {
		grown := make([]byte, want)
		copy(grown, s.raw[:s.pending])
		s.raw = grown
	}
	s.raw = s.raw[:want]

	total := s.pending
	for total < want && !s.eof {
		n, err := s.decoder.Read(s.raw[total:want])
		total += n

		if errors.Is(err, io.EOF) {
			s.eof = true
			break
		}
		if err != nil {
			return 0, fmt.Errorf("audiofile: read mp3: %w", err)
		}
		if n == 0 {
			s.eof = true
		}
	}

	frames := total / mp3BytesPerFrame
	if frames == 0 {
		s.pending = 0
		return 0, io.EOF
	}

	samples := frames * mp3Channels
	if cap(s.floats) < samples {
		s.floats = make([]float64, block.Len()*mp3Channels)
	}
	s.floats = s.floats[:samples]
	for i := range s.floats {
		v := int16(binary.LittleEndian.Uint16(s.raw[i*mp3BytesPerSample:]))
		s.floats[i] = s.scale.toFloat(int(v))
	}
	block.Deinterleave(s.floats)

	used := frames * mp3BytesPerFrame
	s.pending = copy(s.raw, s.raw[used:total])

	return frames, nil
}

// Close closes the underlying file.
func (s *MP3Source) Close() error {
	return s.file.Close()
}
