// Package curve implements the reusable ratio-to-score shapes that map a raw
// observation against an expectation baseline into a bounded sub-score. All
// curves are pure functions: monotone non-decreasing up to their peak and
// monotone non-increasing after it.
package curve

import (
	"math"

	"github.com/placepulse/livability/internal/model"
)

// Shape identifies a curve family.
type Shape string

const (
	// Piecewise interpolates linearly between (ratio, fraction) anchors on
	// ratio = observed/expected.
	Piecewise Shape = "piecewise"
	// ExpDecay models "closer is better, plateaus near an optimal distance".
	ExpDecay Shape = "exp_decay"
	// Hump rises to a plateau band, then declines gently and finally steeply.
	Hump Shape = "hump"
	// SweetSpot is a hump whose plateau band depends on the area type.
	SweetSpot Shape = "sweet_spot"
)

// Breakpoint anchors a piecewise curve: at Ratio, the score is Frac*max.
type Breakpoint struct {
	Ratio float64 `yaml:"ratio" json:"ratio"`
	Frac  float64 `yaml:"frac" json:"frac"`
}

// Band is a hump/sweet-spot plateau description. Values between PeakStart and
// PeakEnd score the full maximum; above PeakEnd the score declines linearly to
// GentleFrac*max at GentleUntil, then to zero at ZeroAt.
type Band struct {
	PeakStart   float64 `yaml:"peak_start" json:"peak_start"`
	PeakEnd     float64 `yaml:"peak_end" json:"peak_end"`
	GentleUntil float64 `yaml:"gentle_until" json:"gentle_until"`
	GentleFrac  float64 `yaml:"gentle_frac" json:"gentle_frac"`
	ZeroAt      float64 `yaml:"zero_at" json:"zero_at"`
}

// Spec fully parameterizes one curve instance. Max is the component's point
// cap; every shape returns a value in [0, Max].
type Spec struct {
	Shape Shape   `yaml:"shape" json:"shape"`
	Max   float64 `yaml:"max" json:"max"`

	// Piecewise.
	Breakpoints []Breakpoint `yaml:"breakpoints,omitempty" json:"breakpoints,omitempty"`
	// ZeroExpected anchors score absolute observed counts when expected == 0.
	ZeroExpected []Breakpoint `yaml:"zero_expected,omitempty" json:"zero_expected,omitempty"`

	// ExpDecay. Observed is a distance; Optimal is where the plateau ends and
	// DecayRate controls how fast the score falls beyond it.
	Optimal   float64 `yaml:"optimal,omitempty" json:"optimal,omitempty"`
	DecayRate float64 `yaml:"decay_rate,omitempty" json:"decay_rate,omitempty"`

	// Hump.
	Band *Band `yaml:"band,omitempty" json:"band,omitempty"`
	// SweetSpot. Missing area types fall back to Band.
	Bands map[model.AreaType]Band `yaml:"bands,omitempty" json:"bands,omitempty"`
}

// DefaultBreakpoints is the standard count-style ratio curve: meeting the
// expectation earns 60% of the component maximum, with diminishing returns
// above it.
var DefaultBreakpoints = []Breakpoint{
	{Ratio: 0, Frac: 0},
	{Ratio: 0.5, Frac: 0.35},
	{Ratio: 1, Frac: 0.60},
	{Ratio: 2, Frac: 0.80},
	{Ratio: 3, Frac: 0.90},
	{Ratio: 5, Frac: 0.95},
}

// DefaultZeroExpected is the conservative absolute-count floor curve used
// when the expectation itself is zero: any observed presence earns modest
// credit without ever dividing by the zero baseline.
var DefaultZeroExpected = []Breakpoint{
	{Ratio: 0, Frac: 0},
	{Ratio: 1, Frac: 0.30},
	{Ratio: 3, Frac: 0.45},
	{Ratio: 10, Frac: 0.60},
}

// Score evaluates the curve for an observation against its expectation. The
// area type only matters for sweet-spot curves. The result is always within
// [0, spec.Max].
func Score(observed, expected float64, spec Spec, area model.AreaType) float64 {
	if spec.Max <= 0 {
		return 0
	}
	if observed < 0 {
		observed = 0
	}

	var frac float64
	switch spec.Shape {
	case Piecewise:
		frac = piecewiseFrac(observed, expected, spec)
	case ExpDecay:
		frac = expDecayFrac(observed, spec)
	case Hump:
		frac = humpFrac(observed, spec.band(area))
	case SweetSpot:
		frac = humpFrac(observed, spec.band(area))
	default:
		frac = 0
	}

	return clamp(frac, 0, 1) * spec.Max
}

func (s Spec) band(area model.AreaType) Band {
	if b, ok := s.Bands[area]; ok {
		return b
	}
	if s.Band != nil {
		return *s.Band
	}
	return Band{}
}

func piecewiseFrac(observed, expected float64, spec Spec) float64 {
	if expected <= 0 {
		// Expected zero is a distinguished case: score the absolute count
		// against the floor anchors instead of a ratio.
		anchors := spec.ZeroExpected
		if len(anchors) == 0 {
			anchors = DefaultZeroExpected
		}
		return interpolate(observed, anchors)
	}

	anchors := spec.Breakpoints
	if len(anchors) == 0 {
		anchors = DefaultBreakpoints
	}
	return interpolate(observed/expected, anchors)
}

// interpolate evaluates sorted anchors at x, clamping outside the range.
func interpolate(x float64, anchors []Breakpoint) float64 {
	if len(anchors) == 0 {
		return 0
	}
	if x <= anchors[0].Ratio {
		return anchors[0].Frac
	}
	last := anchors[len(anchors)-1]
	if x >= last.Ratio {
		return last.Frac
	}
	for i := 1; i < len(anchors); i++ {
		lo, hi := anchors[i-1], anchors[i]
		if x > hi.Ratio {
			continue
		}
		span := hi.Ratio - lo.Ratio
		if span <= 0 {
			return hi.Frac
		}
		t := (x - lo.Ratio) / span
		return lo.Frac + t*(hi.Frac-lo.Frac)
	}
	return last.Frac
}

func expDecayFrac(distance float64, spec Spec) float64 {
	rate := spec.DecayRate
	if rate <= 0 {
		rate = 1
	}
	excess := distance - spec.Optimal
	if excess <= 0 {
		return 1
	}
	return math.Exp(-rate * excess)
}

func humpFrac(v float64, b Band) float64 {
	if b.PeakEnd <= 0 {
		return 0
	}
	switch {
	case v < b.PeakStart:
		if b.PeakStart <= 0 {
			return 1
		}
		return v / b.PeakStart
	case v <= b.PeakEnd:
		return 1
	case v <= b.GentleUntil:
		span := b.GentleUntil - b.PeakEnd
		if span <= 0 {
			return b.GentleFrac
		}
		t := (v - b.PeakEnd) / span
		return 1 + t*(b.GentleFrac-1)
	case v < b.ZeroAt:
		span := b.ZeroAt - b.GentleUntil
		if span <= 0 {
			return 0
		}
		t := (v - b.GentleUntil) / span
		return b.GentleFrac * (1 - t)
	default:
		return 0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
