package effectchain

import (
	"math"

	"github.com/cwbudde/algo-echo/dsp/core"
	"github.com/cwbudde/algo-echo/dsp/effects"
)

// DigitalDelayType is the registry name of effects.DigitalDelay.
const DigitalDelayType = "digital-delay"

// DefaultRegistry returns a Registry pre-populated with all built-in effects.
//
// "digital-delay" reads the params delay_ms, feedback, dry and wet; dry_db and
// wet_db, when present, override the linear gains.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(DigitalDelayType, newDigitalDelay)
	return r
}

func newDigitalDelay(numChannels int, params Params) (Effect, error) {
	def := effects.DefaultDigitalDelayConfig()
	cfg := effects.DigitalDelayConfig{
		DelayTimeMs: params.GetNum("delay_ms", def.DelayTimeMs),
		Feedback:    params.GetNum("feedback", def.Feedback),
		DryGain:     params.GetNum("dry", def.DryGain),
		WetGain:     params.GetNum("wet", def.WetGain),
	}

	if params.Has("dry_db") {
		cfg.DryGain = gainFromDB(params.Num["dry_db"])
	}
	if params.Has("wet_db") {
		cfg.WetGain = gainFromDB(params.Num["wet_db"])
	}

	fx, err := effects.NewDigitalDelayWithConfig(numChannels, cfg)
	if err != nil {
		return nil, err
	}

	return fx, nil
}

func gainFromDB(db float64) float64 {
	if math.IsInf(db, -1) {
		return 0
	}
	return core.DBToLinear(db)
}
