package effectchain

import (
	"github.com/cwbudde/algo-echo/dsp/buffer"
	"github.com/cwbudde/algo-echo/dsp/core"
)

// Effect is the contract every block-based effect implements.
//
// Configure (re)initializes internal sizing for a sample rate and nominal
// block size and must run before the first ProcessInPlace. ClearHistory
// zeroes internal history without resizing. ProcessInPlace transforms one
// block of every channel in place; it must not allocate and must not retain
// the view. Violated preconditions panic.
type Effect interface {
	Configure(sampleRate float64, blockSize int)
	ClearHistory()
	ProcessInPlace(v buffer.View)
}

// ConfigureWith configures e from processor options, defaulting to 48 kHz
// and 1024-sample blocks. It returns the applied configuration.
func ConfigureWith(e Effect, opts ...core.ProcessorOption) core.ProcessorConfig {
	cfg := core.ApplyProcessorOptions(opts...)
	e.Configure(cfg.SampleRate, cfg.BlockSize)
	return cfg
}
