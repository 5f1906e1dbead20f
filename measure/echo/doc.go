// Package echo analyzes the impulse response of feedback delay effects.
//
// An echo train is the sequence of isolated taps that a delay produces
// after a unit impulse at index 0. The analyzer locates the taps, measures
// their spacing and estimates the per-repeat decay, which for a delay with an
// integer sample length equals the feedback amount.
//
// # Usage
//
//	response := echo.ImpulseResponse(delay, 1, 48000, 512)
//	train, err := echo.NewAnalyzer(48000).Analyze(response)
//	fmt.Printf("spacing %.1f ms, feedback %.2f\n", train.SpacingMs, train.Feedback)
//
// CombResponse returns the magnitude spectrum of a response, which for a
// feedback delay shows the comb of peaks spaced sampleRate/delay apart.
package echo
