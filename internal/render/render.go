package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-echo/dsp/buffer"
	"github.com/cwbudde/algo-echo/dsp/core"
	"github.com/cwbudde/algo-echo/dsp/effectchain"
	"github.com/cwbudde/algo-echo/internal/audiofile"
)

// Stats summarizes a render.
type Stats struct {
	SampleRate int
	Channels   int
	Frames     int64   // frames read from the source
	TailFrames int64   // silent frames appended after the source
	Blocks     int     // blocks written
	Peak       float64 // largest absolute output sample
	Clipped    int64   // output samples with magnitude above 1
	sumSquares float64
	samples    int64
}

// RMS returns the root mean square of all output samples.
func (s Stats) RMS() float64 {
	if s.samples == 0 {
		return 0
	}
	return math.Sqrt(s.sumSquares / float64(s.samples))
}

// Duration returns the output length in seconds.
func (s Stats) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(s.Frames+s.TailFrames) / float64(s.SampleRate)
}

// Run configures fx for the source format and streams every frame of src
// through it into sink. The context is checked before each block; on
// cancellation Run returns ctx.Err() with the blocks written so far.
// The caller owns src and sink and must close them.
func Run(ctx context.Context, src audiofile.Source, sink audiofile.Sink, fx effectchain.Effect, opts ...Option) (Stats, error) {
	cfg := applyOptions(opts...)

	stats := Stats{SampleRate: src.SampleRate(), Channels: src.NumChannels()}
	if stats.SampleRate <= 0 || stats.Channels < 1 {
		return stats, fmt.Errorf("render: invalid source format: %d Hz, %d channels", stats.SampleRate, stats.Channels)
	}

	fx.Configure(float64(stats.SampleRate), cfg.BlockSize)

	block := buffer.NewBlock(stats.Channels, cfg.BlockSize)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n, err := src.ReadFrames(block)
		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("render: read: %w", err)
		}

		if err := stats.write(sink, fx, block.Frames(n)); err != nil {
			return stats, err
		}
		stats.Frames += int64(n)
		cfg.report(stats)
	}

	for remaining := cfg.TailFrames; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		n := min(cfg.BlockSize, remaining)
		block.Zero()

		if err := stats.write(sink, fx, block.Frames(n)); err != nil {
			return stats, err
		}
		stats.TailFrames += int64(n)
		remaining -= n
		cfg.report(stats)
	}

	return stats, nil
}

func (s *Stats) write(sink audiofile.Sink, fx effectchain.Effect, v buffer.View) error {
	fx.ProcessInPlace(v)

	for _, samples := range v.Channels() {
		peak := vecmath.MaxAbs(samples)
		if peak > s.Peak {
			s.Peak = peak
		}
		if peak > 1 {
			for _, x := range samples {
				if x > 1 || x < -1 {
					s.Clipped++
				}
			}
		}
		s.sumSquares += vecmath.DotProduct(samples, samples)
		s.samples += int64(len(samples))
	}

	if err := sink.WriteFrames(v); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	s.Blocks++

	return nil
}

func (cfg Config) report(s Stats) {
	if cfg.Progress != nil {
		cfg.Progress(s)
	}
}

// TailFrames converts a tail length in milliseconds to frames at
// sampleRate, rounding up.
func TailFrames(ms float64, sampleRate int) int {
	if ms <= 0 || sampleRate <= 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return 0
	}
	return int(math.Ceil(core.MillisecondsToSamples(ms, float64(sampleRate))))
}
