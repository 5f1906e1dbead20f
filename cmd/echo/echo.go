package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-vecmath/cpu"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-echo/dsp/core"
	"github.com/cwbudde/algo-echo/dsp/effectchain"
	"github.com/cwbudde/algo-echo/dsp/effects"
	"github.com/cwbudde/algo-echo/internal/audiofile"
	"github.com/cwbudde/algo-echo/internal/render"
	"github.com/cwbudde/algo-echo/measure/echo"
)

func delayParams(opts options) effectchain.Params {
	p := effectchain.Params{Num: map[string]float64{
		"delay_ms": opts.delayMs,
		"feedback": opts.feedback,
		"dry":      opts.dry,
		"wet":      opts.wet,
	}}
	if !math.IsNaN(opts.dryDB) {
		p.Num["dry_db"] = opts.dryDB
	}
	if !math.IsNaN(opts.wetDB) {
		p.Num["wet_db"] = opts.wetDB
	}
	return p
}

func newDelay(opts options, numChannels int) (effectchain.Effect, error) {
	return effectchain.DefaultRegistry().New(effectchain.DigitalDelayType, numChannels, delayParams(opts))
}

func process(ctx context.Context, opts options, stdout io.Writer) (err error) {
	inputPath, outputPath := opts.args[0], opts.args[1]

	src, err := audiofile.Open(inputPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	fx, err := newDelay(opts, src.NumChannels())
	if err != nil {
		return err
	}

	bits := opts.bits
	if bits == 0 {
		bits = src.BitDepth()
	}

	if opts.verbose {
		log.Printf("Input: %s (%d Hz, %d channels, %d-bit)", inputPath, src.SampleRate(), src.NumChannels(), src.BitDepth())
		log.Printf("Output: %s (%d-bit)", outputPath, bits)
		log.Printf("Delay: %.2f ms, feedback %.2f, block %d", opts.delayMs, opts.feedback, opts.block)
		log.Printf("SIMD: %s", simdLevel(cpu.DetectFeatures()))
	}

	sink, err := audiofile.CreateWAV(outputPath, src.SampleRate(), bits, src.NumChannels())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := sink.Close(); err == nil {
			err = closeErr
		}
	}()

	renderOpts := []render.Option{
		render.WithBlockSize(opts.block),
		render.WithTail(render.TailFrames(opts.tailMs, src.SampleRate())),
	}
	if opts.verbose {
		renderOpts = append(renderOpts, render.WithProgress(progressLogger(src.SampleRate())))
	}

	start := time.Now()

	stats, err := render.Run(ctx, src, sink, fx, renderOpts...)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "Processed %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Fprintf(stdout, "  %d frames + %d tail frames, %d channels, %.2fs\n",
		stats.Frames, stats.TailFrames, stats.Channels, stats.Duration())
	fmt.Fprintf(stdout, "  peak %.1f dBFS, rms %.1f dBFS, %d clipped samples\n",
		core.LinearToDB(stats.Peak), core.LinearToDB(stats.RMS()), stats.Clipped)
	if seconds := elapsed.Seconds(); seconds > 0 {
		fmt.Fprintf(stdout, "  speed %.1fx realtime\n", stats.Duration()/seconds)
	}

	return nil
}

// simdLevel returns the widest vector extension the block kernels can use.
func simdLevel(f cpu.Features) cpu.SIMDLevel {
	for _, level := range []cpu.SIMDLevel{cpu.SIMDAVX512, cpu.SIMDAVX2, cpu.SIMDAVX, cpu.SIMDSSE2, cpu.SIMDNEON} {
		if cpu.Supports(f, level) {
			return level
		}
	}
	return cpu.SIMDNone
}

// progressLogger logs once per second of rendered audio.
func progressLogger(sampleRate int) func(render.Stats) {
	next := int64(sampleRate)
	return func(s render.Stats) {
		if done := s.Frames + s.TailFrames; done >= next {
			log.Printf("Rendered %.1fs", float64(done)/float64(sampleRate))
			next += int64(sampleRate)
		}
	}
}

func analyze(opts options, stdout io.Writer) error {
	fx, err := newDelay(opts, 1)
	if err != nil {
		return err
	}

	if !core.IsFinite(opts.rate) || opts.rate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %v", opts.rate)
	}

	fx.Configure(opts.rate, opts.block)

	delay, ok := fx.(*effects.DigitalDelay)
	if !ok {
		return fmt.Errorf("unexpected effect type %T", fx)
	}
	delayInt, delayFrac := delay.DelaySamples()

	echoes := max(opts.echoes, 1)
	length := delayInt*echoes + 1

	response := echo.ImpulseResponse(fx, 1, length, opts.block)

	train, err := echo.NewAnalyzer(opts.rate).Analyze(response)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Delay %.3f ms at %.0f Hz = %d + %.4f samples (line %d)\n",
		delay.DelayTime(), opts.rate, delayInt, delayFrac, delay.Capacity())
	fmt.Fprintf(stdout, "Dry %.4f (%.1f dB), wet %.4f (%.1f dB), feedback %.3f\n\n",
		delay.DryGain(), core.LinearToDB(delay.DryGain()),
		delay.WetGain(), core.LinearToDB(delay.WetGain()), delay.Feedback())

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tSample\tTime ms\tAmplitude\tLevel dB\t")
	for i, tap := range train.Taps {
		fmt.Fprintf(tw, "%d\t%d\t%.3f\t%.6f\t%.2f\t\n",
			i+1, tap.Index, tap.TimeMs, tap.Amplitude, core.LinearToDB(math.Abs(tap.Amplitude)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "\nSpacing %d samples (%.3f ms)", train.SpacingSamples, train.SpacingMs)
	if len(train.Taps) > 1 {
		fmt.Fprintf(stdout, ", decay %.3f per repeat (%.2f dB)", train.Feedback, train.DecayDB)
	}
	fmt.Fprintln(stdout)

	if opts.fftSize > 0 {
		return printComb(stdout, response, opts.fftSize, opts.rate, delayInt)
	}

	return nil
}

func printComb(stdout io.Writer, response []float64, fftSize int, sampleRate float64, delayInt int) error {
	mag, err := echo.CombResponse(response, fftSize)
	if err != nil {
		return err
	}

	peak := floats.Max(mag)
	notch := floats.Min(mag)

	fmt.Fprintf(stdout, "Comb: peaks %.2f dB, notches %.2f dB", core.LinearToDB(peak), core.LinearToDB(notch))
	if delayInt > 0 {
		fmt.Fprintf(stdout, ", spacing %.2f Hz", sampleRate/float64(delayInt))
	}
	fmt.Fprintf(stdout, " (bin width %.2f Hz)\n", echo.BinFrequency(1, fftSize, sampleRate))

	return nil
}
