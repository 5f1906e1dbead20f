package effectchain

import "github.com/cwbudde/algo-echo/dsp/buffer"

// stubEffect records lifecycle calls.
type stubEffect struct {
	configureCalls int
	clearCalls     int
	processCalls   int
	lastSampleRate float64
	lastBlockSize  int
}

func (s *stubEffect) Configure(sampleRate float64, blockSize int) {
	s.configureCalls++
	s.lastSampleRate = sampleRate
	s.lastBlockSize = blockSize
}

func (s *stubEffect) ClearHistory() {
	s.clearCalls++
}

func (s *stubEffect) ProcessInPlace(_ buffer.View) {
	s.processCalls++
}

// gainEffect multiplies every sample by a fixed gain.
type gainEffect struct {
	gain float64
}

func (g *gainEffect) Configure(float64, int) {}

func (g *gainEffect) ClearHistory() {}

func (g *gainEffect) ProcessInPlace(v buffer.View) {
	for _, samples := range v.Channels() {
		for i := range samples {
			samples[i] *= g.gain
		}
	}
}

// offsetEffect adds a constant to every sample.
type offsetEffect struct {
	offset float64
}

func (o *offsetEffect) Configure(float64, int) {}

func (o *offsetEffect) ClearHistory() {}

func (o *offsetEffect) ProcessInPlace(v buffer.View) {
	for _, samples := range v.Channels() {
		for i := range samples {
			samples[i] += o.offset
		}
	}
}

func dummyFactory(_ int, _ Params) (Effect, error) {
	return &stubEffect{}, nil
}
