package echo

import (
	"errors"
	"fmt"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-echo/dsp/buffer"
	"github.com/cwbudde/algo-echo/dsp/core"
)

// ErrInvalidFFTSize is returned when the FFT size is not a power of two
// of at least 2.
var ErrInvalidFFTSize = errors.New("echo: FFT size must be a power of two >= 2")

// Processor is the part of the effect lifecycle needed to capture a response.
type Processor interface {
	ProcessInPlace(v buffer.View)
}

// ImpulseResponse feeds a unit impulse into channel 0 of a configured
// processor and returns length samples of that channel's output. The other
// channels receive silence. Processing runs in blocks of blockSize samples.
func ImpulseResponse(p Processor, numChannels, length, blockSize int) []float64 {
	if length <= 0 {
		return nil
	}

	if blockSize <= 0 || blockSize > length {
		blockSize = length
	}

	block := buffer.NewBlock(numChannels, blockSize)
	response := make([]float64, 0, length)

	for pos := 0; pos < length; pos += blockSize {
		n := min(blockSize, length-pos)

		block.Zero()

		if pos == 0 {
			block.Channel(0)[0] = 1
		}

		view := block.Frames(n)
		p.ProcessInPlace(view)
		response = append(response, view.Channel(0)...)
	}

	return response
}

// CombResponse returns the magnitude spectrum of response for bins
// 0..fftSize/2. The response is truncated or zero-padded to fftSize.
func CombResponse(response []float64, fftSize int) ([]float64, error) {
	if len(response) == 0 {
		return nil, ErrEmptyResponse
	}

	if fftSize < 2 || !core.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFFTSize, fftSize)
	}

	in := make([]complex128, fftSize)
	for i := 0; i < fftSize && i < len(response); i++ {
		in[i] = complex(response[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("echo: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)

	err = plan.Forward(out, in)
	if err != nil {
		return nil, fmt.Errorf("echo: fft: %w", err)
	}

	mag := make([]float64, fftSize/2+1)
	for k := range mag {
		mag[k] = cmplx.Abs(out[k])
	}

	return mag, nil
}

// BinFrequency returns the centre frequency in Hz of bin k.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(fftSize)
}
