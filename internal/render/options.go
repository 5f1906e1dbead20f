package render

// DefaultBlockSize is the block size used when none is given.
const DefaultBlockSize = 512

// Config holds render settings.
type Config struct {
	BlockSize  int
	TailFrames int
	Progress   func(Stats)
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns a Config with DefaultBlockSize and no tail.
func DefaultConfig() Config {
	return Config{BlockSize: DefaultBlockSize}
}

// WithBlockSize sets the number of frames processed per block. Values <= 0
// are ignored.
func WithBlockSize(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.BlockSize = n
		}
	}
}

// WithTail appends frames of silence after the source is exhausted.
// Negative values are ignored.
func WithTail(frames int) Option {
	return func(cfg *Config) {
		if frames >= 0 {
			cfg.TailFrames = frames
		}
	}
}

// WithProgress registers a callback invoked after every written block.
func WithProgress(fn func(Stats)) Option {
	return func(cfg *Config) {
		cfg.Progress = fn
	}
}

func applyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
