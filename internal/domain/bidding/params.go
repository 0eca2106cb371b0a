package bidding

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Preset names.
const (
	PresetGreedy   = "greedy"
	PresetBalanced = "balanced"
	PresetCautious = "cautious"
)

// Params are the tunables of one escalation strategy.
type Params struct {
	BaseFraction   float64 `json:"base_fraction"    koanf:"base_fraction"`
	LoserFactorMin float64 `json:"loser_factor_min" koanf:"loser_factor_min"`
	LoserFactorMax float64 `json:"loser_factor_max" koanf:"loser_factor_max"`
	NoiseMin       float64 `json:"noise_min"        koanf:"noise_min"`
	NoiseMax       float64 `json:"noise_max"        koanf:"noise_max"`
}

var presets = map[string]Params{
	PresetGreedy: {
		BaseFraction: 0.6, LoserFactorMin: 0.4, LoserFactorMax: 1.0,
		NoiseMin: 0.9, NoiseMax: 1.1,
	},
	PresetBalanced: {
		BaseFraction: 0.4, LoserFactorMin: 0.3, LoserFactorMax: 1.0,
		NoiseMin: 0.9, NoiseMax: 1.1,
	},
	PresetCautious: {
		BaseFraction: 0.25, LoserFactorMin: 0.2, LoserFactorMax: 0.8,
		NoiseMin: 0.95, NoiseMax: 1.05,
	},
}

// Default returns the balanced preset.
func Default() Params { return presets[PresetBalanced] }

// Preset looks up a built-in strategy by name. An empty name is balanced.
func Preset(name string) (Params, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Default(), nil
	}
	p, ok := presets[name]
	if !ok {
		return Params{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// Presets returns a copy of every built-in preset.
func Presets() map[string]Params {
	out := make(map[string]Params, len(presets))
	for k, v := range presets {
		out[k] = v
	}
	return out
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Validate checks ranges: base in (0,1], 0 <= min <= max, 0 < noise min <= noise max.
func (p Params) Validate() error {
	for _, v := range []float64{p.BaseFraction, p.LoserFactorMin, p.LoserFactorMax, p.NoiseMin, p.NoiseMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite value", ErrInvalidParams)
		}
	}
	switch {
	case p.BaseFraction <= 0 || p.BaseFraction > 1:
		return fmt.Errorf("%w: base_fraction %v not in (0,1]", ErrInvalidParams, p.BaseFraction)
	case p.LoserFactorMin < 0 || p.LoserFactorMax < p.LoserFactorMin:
		return fmt.Errorf("%w: loser factor range [%v,%v]", ErrInvalidParams, p.LoserFactorMin, p.LoserFactorMax)
	case p.NoiseMin <= 0 || p.NoiseMax < p.NoiseMin:
		return fmt.Errorf("%w: noise range [%v,%v]", ErrInvalidParams, p.NoiseMin, p.NoiseMax)
	}
	return nil
}
