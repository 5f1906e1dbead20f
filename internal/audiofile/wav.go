package audiofile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-echo/dsp/buffer"
)

const wavFormatPCM = 1

// WAVSource decodes integer PCM from a WAV file.
type WAVSource struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	scale    pcmScale

	ints    *audio.IntBuffer
	data    []int
	floats  []float64
	pending int
	eof     bool
}

// OpenWAV opens a WAV file for reading.
func OpenWAV(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: open %s: %w", path, err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}

	bitDepth := int(decoder.BitDepth)

	scale, err := newPCMScale(bitDepth)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	format := decoder.Format()

	return &WAVSource{
		file:     f,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: bitDepth,
		scale:    scale,
		ints:     &audio.IntBuffer{Format: format},
	}, nil
}

// SampleRate returns the sample rate in Hz.
func (s *WAVSource) SampleRate() int { return s.rate }

// NumChannels returns the channel count.
func (s *WAVSource) NumChannels() int { return s.channels }

// BitDepth returns the encoded bit depth.
func (s *WAVSource) BitDepth() int { return s.bitDepth }

// ReadFrames decodes up to block.Len() frames into block.
func (s *WAVSource) ReadFrames(block *buffer.Block) (int, error) {
	if err := checkChannels(s.channels, block.NumChannels()); err != nil {
		return 0, err
	}

	want := block.Len() * s.channels
	if want == 0 {
		return 0, nil
	}

	if cap(s.data) < want {
		grown := make([]int, want)
		copy(grown, s.data[:s.pending])
		s.data = grown
	}
	s.data = s.data[:want]

	total := s.pending
	for total < want && !s.eof {
		s.ints.Data = s.data[total:want]

		n, err := s.decoder.PCMBuffer(s.ints)
		if err != nil {
			return 0, fmt.Errorf("audiofile: read wav: %w", err)
		}
		if n == 0 {
			s.eof = true
			break
		}
		total += n
	}

	frames := total / s.channels
	if frames == 0 {
		s.pending = 0
		return 0, io.EOF
	}

	used := frames * s.channels
	if cap(s.floats) < used {
		s.floats = make([]float64, want)
	}
	s.floats = s.floats[:used]
	for i, v := range s.data[:used] {
		s.floats[i] = s.scale.toFloat(v)
	}
	block.Deinterleave(s.floats)

	s.pending = copy(s.data, s.data[used:total])

	return frames, nil
}

// Close closes the underlying file.
func (s *WAVSource) Close() error {
	return s.file.Close()
}

// WAVSink encodes frames as integer PCM into a WAV file.
type WAVSink struct {
	file     *os.File
	encoder  *wav.Encoder
	channels int
	scale    pcmScale
	ints     *audio.IntBuffer
	floats   []float64
	frames   int64
	clipped  int64
	wrote    bool
	closed   bool
}

// CreateWAV creates path and returns a sink writing PCM with the given
// format. Supported bit depths are 8, 16, 24 and 32.
func CreateWAV(path string, sampleRate, bitDepth, channels int) (*WAVSink, error) {
	if sampleRate <= 0 || channels < 1 {
		return nil, fmt.Errorf("%w: rate %d, channels %d", ErrInvalidFormat, sampleRate, channels)
	}

	scale, err := newPCMScale(bitDepth)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: create %s: %w", path, err)
	}

	return &WAVSink{
		file:     f,
		encoder:  wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM),
		channels: channels,
		scale:    scale,
		ints: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// WriteFrames encodes all samples of v. Out-of-range samples are clipped
// and counted.
func (s *WAVSink) WriteFrames(v buffer.View) error {
	if err := checkChannels(s.channels, v.NumChannels()); err != nil {
		return err
	}

	n := v.Samples()
	need := n * s.channels
	if cap(s.floats) < need {
		s.floats = make([]float64, need)
		s.ints.Data = make([]int, need)
	}
	s.floats = s.floats[:need]
	s.ints.Data = s.ints.Data[:need]

	v.Interleave(s.floats)
	for i, x := range s.floats {
		value, clipped := s.scale.toInt(x)
		if clipped {
			s.clipped++
		}
		s.ints.Data[i] = value
	}

	if err := s.encoder.Write(s.ints); err != nil {
		return fmt.Errorf("audiofile: write wav: %w", err)
	}

	s.wrote = true
	s.frames += int64(n)

	return nil
}

// Frames returns the number of frames written so far.
func (s *WAVSink) Frames() int64 { return s.frames }

// Clipped returns the number of samples clipped so far.
func (s *WAVSink) Clipped() int64 { return s.clipped }

// Close finalizes the WAV header and closes the file. Calling Close more
// than once is a no-op.
func (s *WAVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error

	if !s.wrote {
		s.ints.Data = s.ints.Data[:0]
		if err := s.encoder.Write(s.ints); err != nil {
			errs = append(errs, fmt.Errorf("audiofile: write wav header: %w", err))
		}
	}

	if err := s.encoder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("audiofile: finalize wav: %w", err))
	}

	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
