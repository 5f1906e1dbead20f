package buffer

// Block owns multi-channel sample storage with reuse-friendly semantics.
type Block struct {
	channels [][]float64
	frames   [][]float64
}

// NewBlock returns a zero-filled Block. It panics if numChannels < 1.
// A negative length is treated as 0.
func NewBlock(numChannels, length int) *Block {
	if numChannels < 1 {
		panic("buffer: block needs at least one channel")
	}
	if length < 0 {
		length = 0
	}

	b := &Block{
		channels: make([][]float64, numChannels),
		frames:   make([][]float64, numChannels),
	}
	for ch := range b.channels {
		b.channels[ch] = make([]float64, length)
	}
	return b
}

// NumChannels returns the number of channels.
func (b *Block) NumChannels() int {
	return len(b.channels)
}

// Len returns the number of samples per channel.
func (b *Block) Len() int {
	return len(b.channels[0])
}

// Channel returns the samples of channel ch.
func (b *Block) Channel(ch int) []float64 {
	return b.channels[ch]
}

// View returns a View over all samples of the block.
func (b *Block) View() View {
	return View{channels: b.channels, samples: b.Len()}
}

// Frames returns a View over the first n samples of every channel. n is
// clamped to [0, Len()]. The returned View shares slice headers with the
// Block, so it is only valid until the next call to Frames.
func (b *Block) Frames(n int) View {
	if n < 0 {
		n = 0
	}
	if n > b.Len() {
		n = b.Len()
	}
	for ch, samples := range b.channels {
		b.frames[ch] = samples[:n]
	}
	return View{channels: b.frames, samples: n}
}

// Zero sets all samples of all channels to 0.
func (b *Block) Zero() {
	for _, samples := range b.channels {
		for i := range samples {
			samples[i] = 0
		}
	}
}

// Deinterleave spreads interleaved frames from src into the channels and
// returns the number of frames copied. Trailing values that do not form a
// whole frame are ignored, as are frames beyond Len().
func (b *Block) Deinterleave(src []float64) int {
	numChannels := len(b.channels)
	frames := len(src) / numChannels
	if frames > b.Len() {
		frames = b.Len()
	}

	if numChannels == 1 {
		copy(b.channels[0], src[:frames])
		return frames
	}

	for i := 0; i < frames; i++ {
		base := i * numChannels
		for ch, samples := range b.channels {
			samples[i] = src[base+ch]
		}
	}
	return frames
}
