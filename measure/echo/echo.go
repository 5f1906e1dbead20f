package echo

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultThreshold is the absolute amplitude below which samples are
// treated as silence.
const DefaultThreshold = 1e-6

// Errors returned by echo analysis functions.
var (
	ErrEmptyResponse     = errors.New("echo: impulse response is empty")
	ErrInvalidSampleRate = errors.New("echo: sample rate must be positive")
	ErrNoEchoes          = errors.New("echo: no echo above threshold")
)

// Tap is a single echo in the response.
type Tap struct {
	Index     int     // sample index relative to the impulse
	TimeMs    float64 // Index expressed in milliseconds
	Amplitude float64 // signed sample value at Index
}

// Train holds echo analysis results.
type Train struct {
	Direct         float64 // response at index 0 (the dry path)
	Taps           []Tap   // echoes in order of arrival
	SpacingSamples int     // distance from the impulse to the first echo
	SpacingMs      float64 // SpacingSamples in milliseconds
	Regular        bool    // every tap is a multiple of the spacing
	Feedback       float64 // mean amplitude ratio of consecutive taps; 0 for a single tap
	DecayDB        float64 // Feedback in dB per repeat; -Inf for a single tap
}

// Analyzer extracts echo trains from impulse responses.
type Analyzer struct {
	SampleRate float64
	Threshold  float64
}

// NewAnalyzer creates an echo analyzer with the given sample rate and the
// default threshold.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, Threshold: DefaultThreshold}
}

// Analyze finds the echo train in a response to a unit impulse at index 0.
// Adjacent samples above the threshold are merged into one tap located at
// their absolute peak.
func (a *Analyzer) Analyze(response []float64) (Train, error) {
	if len(response) == 0 {
		return Train{}, ErrEmptyResponse
	}

	if a.SampleRate <= 0 || math.IsNaN(a.SampleRate) || math.IsInf(a.SampleRate, 0) {
		return Train{}, ErrInvalidSampleRate
	}

	taps := a.findTaps(response)
	if len(taps) == 0 {
		return Train{Direct: response[0]}, ErrNoEchoes
	}

	train := Train{
		Direct:         response[0],
		Taps:           taps,
		SpacingSamples: taps[0].Index,
		SpacingMs:      taps[0].TimeMs,
		Regular:        true,
		DecayDB:        math.Inf(-1),
	}

	for _, tap := range taps {
		if tap.Index%train.SpacingSamples != 0 {
			train.Regular = false
			break
		}
	}

	if len(taps) < 2 {
		return train, nil
	}

	ratios := make([]float64, len(taps)-1)
	for i := 1; i < len(taps); i++ {
		ratios[i-1] = math.Abs(taps[i].Amplitude / taps[i-1].Amplitude)
	}

	train.Feedback = stat.Mean(ratios, nil)
	if train.Feedback > 0 {
		train.DecayDB = 20 * math.Log10(train.Feedback)
	}

	return train, nil
}

// PeakTap returns the tap with the largest absolute amplitude.
func (t Train) PeakTap() (Tap, bool) {
	if len(t.Taps) == 0 {
		return Tap{}, false
	}

	amps := make([]float64, len(t.Taps))
	for i, tap := range t.Taps {
		amps[i] = math.Abs(tap.Amplitude)
	}

	return t.Taps[floats.MaxIdx(amps)], true
}

func (a *Analyzer) findTaps(response []float64) []Tap {
	threshold := a.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	var taps []Tap

	for i := 1; i < len(response); {
		if math.Abs(response[i]) <= threshold {
			i++
			continue
		}

		peak := i
		for i < len(response) && math.Abs(response[i]) > threshold {
			if math.Abs(response[i]) > math.Abs(response[peak]) {
				peak = i
			}
			i++
		}

		taps = append(taps, Tap{
			Index:     peak,
			TimeMs:    float64(peak) * 1000 / a.SampleRate,
			Amplitude: response[peak],
		})
	}

	return taps
}
