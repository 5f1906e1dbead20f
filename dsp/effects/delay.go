package effects

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-echo/dsp/buffer"
	"github.com/cwbudde/algo-echo/dsp/core"
	"github.com/cwbudde/algo-echo/dsp/delay"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// MaxDelayTimeMs is the longest delay the delay lines are sized for.
	MaxDelayTimeMs = 1000.0

	defaultDelayTimeMs = 100.0
	defaultFeedback    = 0.2
	defaultDryGain     = 1.0
	defaultWetGain     = 0.25 // about -12 dB
)

// Errors reported by DigitalDelayConfig.Validate and used as panic values
// by the DigitalDelay setters.
var (
	ErrDelayTime = errors.New("effects: delay time must be in (0, 1000] ms")
	ErrFeedback  = errors.New("effects: feedback must be in [0, 1]")
	ErrGain      = errors.New("effects: gain must be finite and >= 0")
)

// DigitalDelayConfig holds the user parameters of a DigitalDelay.
type DigitalDelayConfig struct {
	DelayTimeMs float64
	Feedback    float64
	DryGain     float64
	WetGain     float64
}

// DefaultDigitalDelayConfig returns 100 ms, 0.2 feedback, unity dry and -12 dB wet.
func DefaultDigitalDelayConfig() DigitalDelayConfig {
	return DigitalDelayConfig{
		DelayTimeMs: defaultDelayTimeMs,
		Feedback:    defaultFeedback,
		DryGain:     defaultDryGain,
		WetGain:     defaultWetGain,
	}
}

// Validate reports the first parameter that is out of range.
func (c DigitalDelayConfig) Validate() error {
	if err := validateDelayTime(c.DelayTimeMs); err != nil {
		return err
	}
	if err := validateFeedback(c.Feedback); err != nil {
		return err
	}
	if err := validateGain("dry", c.DryGain); err != nil {
		return err
	}
	return validateGain("wet", c.WetGain)
}

// DigitalDelay is a multi-channel echo with feedback and dry/wet gains.
//
// Each channel owns a power-of-two delay line; all channels share one read
// cursor. The fractional part of the delay is realized on the write side:
// every feedback-mixed input is split across two adjacent slots weighted by
// the fractional delay, so reading needs a single fetch. There is no
// cross-talk between channels.
//
// Configure must be called before ProcessInPlace and whenever the sample
// rate changes. Calls must be serialized by the caller.
type DigitalDelay struct {
	// Parameters
	sampleRate  float64
	delayTimeMs float64
	feedback    float64
	dryGain     float64
	wetGain     float64

	// Derived in Configure
	delayInt  int
	delayFrac float64

	// State
	lines  []delay.Line
	cursor int
	wet    []float64
}

// NewDigitalDelay creates an unconfigured delay with default parameters.
// It panics if numChannels < 1.
func NewDigitalDelay(numChannels int) *DigitalDelay {
	if numChannels < 1 {
		panic(fmt.Sprintf("effects: digital delay needs at least one channel: %d", numChannels))
	}

	cfg := DefaultDigitalDelayConfig()
	return &DigitalDelay{
		delayTimeMs: cfg.DelayTimeMs,
		feedback:    cfg.Feedback,
		dryGain:     cfg.DryGain,
		wetGain:     cfg.WetGain,
		lines:       make([]delay.Line, numChannels),
	}
}

// NewDigitalDelayWithConfig creates an unconfigured delay with the given
// parameters, returning an error instead of panicking on invalid input.
func NewDigitalDelayWithConfig(numChannels int, cfg DigitalDelayConfig) (*DigitalDelay, error) {
	if numChannels < 1 {
		return nil, fmt.Errorf("effects: digital delay needs at least one channel: %d", numChannels)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := NewDigitalDelay(numChannels)
	d.delayTimeMs = cfg.DelayTimeMs
	d.feedback = cfg.Feedback
	d.dryGain = cfg.DryGain
	d.wetGain = cfg.WetGain
	return d, nil
}

// Configure sizes and clears the delay lines for sampleRate and recomputes
// the integer and fractional delay. blockSize sizes the scratch used by the
// mixing stage; longer blocks are still accepted by ProcessInPlace.
// It panics if sampleRate or blockSize is not positive.
func (d *DigitalDelay) Configure(sampleRate float64, blockSize int) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		panic(fmt.Sprintf("effects: digital delay sample rate must be > 0: %f", sampleRate))
	}
	if blockSize <= 0 {
		panic(fmt.Sprintf("effects: digital delay block size must be > 0: %d", blockSize))
	}

	d.sampleRate = sampleRate

	delaySamples := core.MillisecondsToSamples(d.delayTimeMs, sampleRate)
	d.delayInt = int(math.Floor(delaySamples))
	d.delayFrac = delaySamples - float64(d.delayInt)

	// One guard slot keeps the second write slot of a maximum-length delay
	// from landing on the read cursor. It doubles the line when ceil(max) is
	// already a power of two, as at 32768 Hz.
	maxDelaySamples := int(math.Ceil(core.MillisecondsToSamples(MaxDelayTimeMs, sampleRate)))
	for ch := range d.lines {
		d.lines[ch].Resize(maxDelaySamples + 1)
	}
	d.wet = core.EnsureLen(d.wet, blockSize)
	d.cursor = 0
}

// ClearHistory zeroes every delay line and rewinds the read cursor without
// changing the line length.
func (d *DigitalDelay) ClearHistory() {
	for ch := range d.lines {
		d.lines[ch].Reset()
	}
	d.cursor = 0
}

// ProcessInPlace applies the delay to every channel of v. v must carry
// exactly NumChannels channels; the block length is unconstrained.
// It panics, before touching any sample, if the delay is not configured or
// the channel count does not match.
func (d *DigitalDelay) ProcessInPlace(v buffer.View) {
	if len(d.wet) == 0 {
		panic("effects: digital delay used before Configure")
	}
	if v.NumChannels() != len(d.lines) {
		panic(fmt.Sprintf("effects: digital delay has %d channels, block has %d",
			len(d.lines), v.NumChannels()))
	}

	n := v.Samples()
	if n == 0 {
		return
	}

	mask := d.lines[0].Mask()
	chunk := len(d.wet)

	for ch, samples := range v.Channels() {
		line := d.lines[ch].Samples()
		for start := 0; start < n; start += chunk {
			end := start + chunk
			if end > n {
				end = n
			}
			wet := d.wet[:end-start]
			d.feed(line, mask, (d.cursor+start)&mask, samples[start:end], wet)
			d.mix(samples[start:end], wet)
		}
	}

	d.cursor = (d.cursor + n) & mask
}

// feed reads the delayed signal into wet and writes the feedback-mixed input
// back into line, starting at read position r.
//
// The second write slot of sample i is the first write slot of sample i+1,
// so with a fractional delay the frac-weighted part is overwritten before
// it is read.
func (d *DigitalDelay) feed(line []float64, mask, r int, in, wet []float64) {
	w1 := (r + d.delayInt) & mask
	w2 := (w1 + 1) & mask
	gain1 := 1 - d.delayFrac
	gain2 := d.delayFrac
	fb := d.feedback

	for i, x := range in {
		y := line[r]
		x += y * fb
		line[w1] = x * gain1
		line[w2] = x * gain2
		wet[i] = y

		r = (r + 1) & mask
		w1 = (w1 + 1) & mask
		w2 = (w2 + 1) & mask
	}
}

// mix computes out = dry*out + wet*delayed. delayed is scaled in place.
func (d *DigitalDelay) mix(out, delayed []float64) {
	vecmath.ScaleBlockInPlace(out, d.dryGain)
	vecmath.ScaleBlockInPlace(delayed, d.wetGain)
	vecmath.AddBlockInPlace(out, delayed)
}

// SetDelayTime sets the delay in milliseconds. The new value takes effect
// on the next Configure. It panics unless 0 < ms <= MaxDelayTimeMs.
func (d *DigitalDelay) SetDelayTime(ms float64) {
	mustValidate(validateDelayTime(ms))
	d.delayTimeMs = ms
}

// SetFeedback sets the feedback amount in [0, 1]. It takes effect on the next
// processed sample.
func (d *DigitalDelay) SetFeedback(feedback float64) {
	mustValidate(validateFeedback(feedback))
	d.feedback = feedback
}

// SetDryGain sets the linear gain of the unprocessed signal.
func (d *DigitalDelay) SetDryGain(gain float64) {
	mustValidate(validateGain("dry", gain))
	d.dryGain = gain
}

// SetWetGain sets the linear gain of the delayed signal.
func (d *DigitalDelay) SetWetGain(gain float64) {
	mustValidate(validateGain("wet", gain))
	d.wetGain = gain
}

// SetDryGainDB sets the dry gain in dB. -Inf mutes the dry signal.
func (d *DigitalDelay) SetDryGainDB(db float64) {
	d.SetDryGain(dbToGain(db))
}

// SetWetGainDB sets the wet gain in dB. -Inf mutes the delayed signal.
func (d *DigitalDelay) SetWetGainDB(db float64) {
	d.SetWetGain(dbToGain(db))
}

// DelayTime returns the delay time in milliseconds.
func (d *DigitalDelay) DelayTime() float64 { return d.delayTimeMs }

// Feedback returns the feedback amount.
func (d *DigitalDelay) Feedback() float64 { return d.feedback }

// DryGain returns the linear dry gain.
func (d *DigitalDelay) DryGain() float64 { return d.dryGain }

// WetGain returns the linear wet gain.
func (d *DigitalDelay) WetGain() float64 { return d.wetGain }

// SampleRate returns the sample rate of the last Configure, or 0.
func (d *DigitalDelay) SampleRate() float64 { return d.sampleRate }

// NumChannels returns the fixed channel count.
func (d *DigitalDelay) NumChannels() int { return len(d.lines) }

// Configured reports whether Configure has been called.
func (d *DigitalDelay) Configured() bool { return len(d.wet) > 0 }

// DelaySamples returns the integer and fractional delay computed by the last
// Configure. They do not follow SetDelayTime until Configure runs again.
func (d *DigitalDelay) DelaySamples() (int, float64) {
	return d.delayInt, d.delayFrac
}

// Capacity returns the per-channel delay line length in samples.
func (d *DigitalDelay) Capacity() int {
	return d.lines[0].Len()
}

func validateDelayTime(ms float64) error {
	if !(ms > 0 && ms <= MaxDelayTimeMs) {
		return fmt.Errorf("%w: %f", ErrDelayTime, ms)
	}
	return nil
}

func validateFeedback(feedback float64) error {
	if !(feedback >= 0 && feedback <= 1) {
		return fmt.Errorf("%w: %f", ErrFeedback, feedback)
	}
	return nil
}

func validateGain(name string, gain float64) error {
	if !(gain >= 0) || math.IsInf(gain, 1) {
		return fmt.Errorf("%w: %s %f", ErrGain, name, gain)
	}
	return nil
}

func mustValidate(err error) {
	if err != nil {
		panic(err)
	}
}

func dbToGain(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	return core.DBToLinear(db)
}
