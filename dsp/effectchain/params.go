package effectchain

import "math"

// Params holds numeric construction parameters for one effect.
type Params struct {
	Num map[string]float64
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// Has reports whether key is present, regardless of its value.
func (p Params) Has(key string) bool {
	_, ok := p.Num[key]
	return ok
}
