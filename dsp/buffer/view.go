package buffer

import "fmt"

// View is a non-owning set of equal-length mutable channel slices.
// The zero value is an empty view with no channels.
type View struct {
	channels [][]float64
	samples  int
}

// NewView wraps channels without copying. All channel slices must have the
// same length; NewView panics otherwise.
func NewView(channels [][]float64) View {
	samples := 0
	if len(channels) > 0 {
		samples = len(channels[0])
	}

	for ch := 1; ch < len(channels); ch++ {
		if len(channels[ch]) != samples {
			panic(fmt.Sprintf("buffer: channel %d has %d samples, channel 0 has %d",
				ch, len(channels[ch]), samples))
		}
	}

	return View{channels: channels, samples: samples}
}

// Samples returns the number of samples per channel.
func (v View) Samples() int {
	return v.samples
}

// NumChannels returns the number of channels.
func (v View) NumChannels() int {
	return len(v.channels)
}

// Channel returns the samples of channel ch.
func (v View) Channel(ch int) []float64 {
	return v.channels[ch]
}

// Channels returns the channel slices. Mutating the samples mutates the
// host storage; replacing slice headers is not supported.
func (v View) Channels() [][]float64 {
	return v.channels
}

// Interleave writes the samples of every channel into dst as interleaved
// frames and returns the number of frames written. It stops early when dst
// is too short for another whole frame.
func (v View) Interleave(dst []float64) int {
	numChannels := len(v.channels)
	if numChannels == 0 {
		return 0
	}

	frames := v.samples
	if limit := len(dst) / numChannels; frames > limit {
		frames = limit
	}

	if numChannels == 1 {
		copy(dst, v.channels[0][:frames])
		return frames
	}

	for i := 0; i < frames; i++ {
		base := i * numChannels
		for ch, samples := range v.channels {
			dst[base+ch] = samples[i]
		}
	}
	return frames
}
