// Command echo applies a digital delay to an audio file or prints the echo
// train produced by a set of delay parameters.
//
// Usage:
//
//	echo [flags] input.(wav|flac|mp3) output.wav
//	echo -analyze [flags]
//
// Examples:
//
//	echo -delay 250 -feedback 0.4 -tail 2000 voice.wav voice-echo.wav
//	echo -delay 120 -wet-db -6 -bits 24 drums.mp3 drums-echo.wav
//	echo -analyze -delay 100 -feedback 0.3 -rate 44100
//	echo -analyze -delay 5 -fft 4096
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
)

const minRequiredArgs = 2

var errUsage = errors.New("usage: echo [flags] input.(wav|flac|mp3) output.wav")

type options struct {
	delayMs  float64
	feedback float64
	dry      float64
	wet      float64
	dryDB    float64
	wetDB    float64
	block    int
	bits     int
	tailMs   float64
	rate     float64
	echoes   int
	fftSize  int
	analyze  bool
	verbose  bool
	args     []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if opts.analyze {
		return analyze(opts, stdout)
	}

	if len(opts.args) < minRequiredArgs {
		return errUsage
	}

	return process(ctx, opts, stdout)
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("echo", flag.ContinueOnError)

	var opts options
	fs.Float64Var(&opts.delayMs, "delay", 100, "delay time in milliseconds (0, 1000]")
	fs.Float64Var(&opts.feedback, "feedback", 0.2, "feedback amount [0, 1]")
	fs.Float64Var(&opts.dry, "dry", 1, "dry gain (linear)")
	fs.Float64Var(&opts.wet, "wet", 0.25, "wet gain (linear)")
	fs.Float64Var(&opts.dryDB, "dry-db", math.NaN(), "dry gain in dB, overrides -dry")
	fs.Float64Var(&opts.wetDB, "wet-db", math.NaN(), "wet gain in dB, overrides -wet")
	fs.IntVar(&opts.block, "block", 512, "processing block size in frames")
	fs.IntVar(&opts.bits, "bits", 0, "output bit depth (8, 16, 24, 32); 0 keeps the source depth")
	fs.Float64Var(&opts.tailMs, "tail", 0, "milliseconds of silence appended so the echo tail decays")
	fs.Float64Var(&opts.rate, "rate", 48000, "sample rate for -analyze in Hz")
	fs.IntVar(&opts.echoes, "echoes", 8, "number of delay periods rendered by -analyze")
	fs.IntVar(&opts.fftSize, "fft", 0, "FFT size for the comb response printed by -analyze; 0 disables")
	fs.BoolVar(&opts.analyze, "analyze", false, "print the echo train of the settings instead of processing a file")
	fs.BoolVar(&opts.verbose, "v", false, "verbose output")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n  echo [flags] input.(wav|flac|mp3) output.wav\n  echo -analyze [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.block <= 0 {
		return options{}, fmt.Errorf("block size must be positive, got %d", opts.block)
	}

	opts.args = fs.Args()

	return opts, nil
}
