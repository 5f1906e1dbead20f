// Package delay provides circular delay lines sized to powers of two so that
// positions wrap with a bitmask instead of a modulo.
package delay

import "github.com/cwbudde/algo-echo/dsp/core"

// Line is a circular delay line whose length is a power of two.
// The zero value is an empty line; call Resize before use.
type Line struct {
	buffer []float64
	mask   int
}

// Len returns the internal buffer size, always zero or a power of two.
func (l *Line) Len() int {
	return len(l.buffer)
}

// Mask returns Len()-1, the bitmask that wraps positions into the buffer.
func (l *Line) Mask() int {
	return l.mask
}

// Samples returns the backing storage for direct indexing in hot loops.
// Indices must be wrapped with Mask.
func (l *Line) Samples() []float64 {
	return l.buffer
}

// Resize sizes the line to the next power of two >= minSize and clears it.
// Existing storage is reused when the length does not change.
func (l *Line) Resize(minSize int) {
	size := core.NextPowerOfTwo(minSize)
	if size != len(l.buffer) {
		l.buffer = make([]float64, size)
	} else {
		core.Zero(l.buffer)
	}
	l.mask = size - 1
}

// Reset clears line content without changing its length.
func (l *Line) Reset() {
	core.Zero(l.buffer)
}
