// Package domain contains the pure data model shared by the validation
// engine, strategies, and collaborators. It has no infrastructure
// dependencies by design.
package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Bar is one fixed-interval OHLCV observation.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an ordered, gap-free sequence of bars. The engine reads it
// by integer position only; acquisition and caching live outside the
// core.
type Series []Bar

// Validate checks the series invariant: timestamps strictly increasing,
// no duplicates.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return fmt.Errorf("series timestamps must be strictly increasing: bar %d (%s) not after bar %d (%s)",
				i, s[i].Time.Format(time.RFC3339), i-1, s[i-1].Time.Format(time.RFC3339))
		}
	}
	return nil
}

// Closes returns the close prices as a flat slice.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, bar := range s {
		closes[i] = bar.Close
	}
	return closes
}

// Times returns the bar timestamps as a flat slice.
func (s Series) Times() []time.Time {
	times := make([]time.Time, len(s))
	for i, bar := range s {
		times[i] = bar.Time
	}
	return times
}

// Returns computes simple per-bar close-to-close returns. The first
// element is 0 since there is no prior close to measure against.
func (s Series) Returns() []float64 {
	returns := make([]float64, len(s))
	for i := 1; i < len(s); i++ {
		if s[i-1].Close != 0 {
			returns[i] = s[i].Close/s[i-1].Close - 1
		}
	}
	return returns
}

// Position is a per-bar trading stance emitted by a strategy.
type Position int8

const (
	Short Position = -1
	Flat  Position = 0
	Long  Position = 1
)

// String returns a human-readable position label.
func (p Position) String() string {
	switch p {
	case Short:
		return "short"
	case Long:
		return "long"
	default:
		return "flat"
	}
}

// Valid reports whether p is one of the three allowed stances.
func (p Position) Valid() bool {
	return p == Short || p == Flat || p == Long
}

// Params is a named scalar parameter mapping for strategies and
// optimizers. Values are copied at hand-off points so a run never
// shares mutable state with its caller.
type Params map[string]float64

// Clone returns an independent copy of the parameter mapping.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Metrics maps metric names to scalar values. Ratios that are undefined
// for an input (zero volatility, no losing bars) are NaN in memory and
// null on the wire, since encoding/json rejects NaN.
type Metrics map[string]float64

// MarshalJSON encodes NaN and infinite values as null.
func (m Metrics) MarshalJSON() ([]byte, error) {
	out := make(map[string]*float64, len(m))
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[k] = nil
			continue
		}
		v := v
		out[k] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes null values back to NaN.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	raw := make(map[string]*float64)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Metrics, len(raw))
	for k, v := range raw {
		if v == nil {
			out[k] = math.NaN()
		} else {
			out[k] = *v
		}
	}
	*m = out
	return nil
}

// NullableFloat is a float64 that encodes NaN and infinite values as
// JSON null.
type NullableFloat float64

// MarshalJSON encodes NaN and infinite values as null.
func (f NullableFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes null back to NaN.
func (f *NullableFloat) UnmarshalJSON(data []byte) error {
	var v *float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*f = NullableFloat(math.NaN())
		return nil
	}
	*f = NullableFloat(*v)
	return nil
}

// EquityCurve is an ordered sequence of positive portfolio values,
// index-aligned with the bar range it was computed from. Within a
// window the curve starts at exactly 1.0; after stitching it is
// continuous in value across window boundaries.
type EquityCurve struct {
	Times  []time.Time `json:"times"`
	Values []float64   `json:"values"`
}

// Len returns the number of points in the curve.
func (e EquityCurve) Len() int {
	return len(e.Values)
}

// First returns the first curve value, or 0 for an empty curve.
func (e EquityCurve) First() float64 {
	if len(e.Values) == 0 {
		return 0
	}
	return e.Values[0]
}

// Last returns the final curve value, or 0 for an empty curve.
func (e EquityCurve) Last() float64 {
	if len(e.Values) == 0 {
		return 0
	}
	return e.Values[len(e.Values)-1]
}
