package effectchain

import "github.com/cwbudde/algo-echo/dsp/buffer"

// Chain runs effects in series on the same block. A Chain is itself an Effect.
type Chain struct {
	effects  []Effect
	bypassed bool
}

// NewChain returns a chain of the given effects in processing order.
// It panics on a nil effect.
func NewChain(effects ...Effect) *Chain {
	c := &Chain{effects: make([]Effect, 0, len(effects))}
	for _, e := range effects {
		c.Append(e)
	}
	return c
}

// Append adds e at the end of the chain. Call it off the real-time path.
func (c *Chain) Append(e Effect) {
	if e == nil {
		panic("effectchain: nil effect")
	}
	c.effects = append(c.effects, e)
}

// Len returns the number of effects.
func (c *Chain) Len() int {
	return len(c.effects)
}

// Effect returns the i-th effect.
func (c *Chain) Effect(i int) Effect {
	return c.effects[i]
}

// SetBypassed toggles bypass. A bypassed chain leaves blocks untouched and
// does not advance the state of its effects.
func (c *Chain) SetBypassed(bypassed bool) {
	c.bypassed = bypassed
}

// Bypassed reports whether the chain is bypassed.
func (c *Chain) Bypassed() bool {
	return c.bypassed
}

// Configure configures every effect.
func (c *Chain) Configure(sampleRate float64, blockSize int) {
	for _, e := range c.effects {
		e.Configure(sampleRate, blockSize)
	}
}

// ClearHistory clears every effect.
func (c *Chain) ClearHistory() {
	for _, e := range c.effects {
		e.ClearHistory()
	}
}

// ProcessInPlace runs the effects in order on v.
func (c *Chain) ProcessInPlace(v buffer.View) {
	if c.bypassed {
		return
	}
	for _, e := range c.effects {
		e.ProcessInPlace(v)
	}
}
