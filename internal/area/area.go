// Package area converts land areas between the kila/kanal/marla/sarshai
// units used in rural land registers and acres.
package area

import (
	"errors"
	"fmt"
	"math"
)

// Unit relationships. Kanal is the base unit for all AreaValues.
const (
	KanalPerKila    = 8
	MarlaPerKanal   = 20
	SarshaiPerMarla = 9
	AcrePerKanal    = 0.125

	SarshaiPerKanal = MarlaPerKanal * SarshaiPerMarla
)

// ErrInvalidArea is returned for negative, NaN or infinite areas.
var ErrInvalidArea = errors.New("invalid area")

// Rounding selects how the trailing sarshai component is rounded.
type Rounding int

const (
	// HalfEven rounds 0.5 to the nearest even sarshai. This matches the
	// spreadsheets produced by the legacy calculator.
	HalfEven Rounding = iota
	// HalfAwayFromZero rounds 0.5 up.
	HalfAwayFromZero
)

// String returns the config spelling of r.
func (r Rounding) String() string {
	switch r {
	case HalfEven:
		return "half_even"
	case HalfAwayFromZero:
		return "half_away"
	}
	return fmt.Sprintf("Rounding(%d)", int(r))
}

// ParseRounding maps a config value onto a Rounding.
func ParseRounding(s string) (Rounding, error) {
	switch s {
	case "", "half_even":
		return HalfEven, nil
	case "half_away", "half_up":
		return HalfAwayFromZero, nil
	}
	return HalfEven, fmt.Errorf("unknown rounding mode %q", s)
}

func (r Rounding) round(v float64) float64 {
	if r == HalfAwayFromZero {
		return math.Round(v)
	}
	return math.RoundToEven(v)
}

type options struct {
	rounding Rounding
	carry    bool
}

// Option tunes Split.
type Option func(*options)

// WithRounding sets the sarshai rounding mode.
func WithRounding(r Rounding) Option {
	return func(o *options) { o.rounding = r }
}

// WithoutCarry disables normalisation after rounding, so a sarshai of 9
// is reported as-is instead of rolling into the next marla.
func WithoutCarry() Option {
	return func(o *options) { o.carry = false }
}

// WithCarry sets the carry policy explicitly.
func WithCarry(carry bool) Option {
	return func(o *options) { o.carry = carry }
}

// Breakdown is the mixed-radix decomposition of an area.
type Breakdown struct {
	Kila    int
	Kanal   int
	Marla   int
	Sarshai int
}

// FromKanalMarla combines the two register columns into kanal.
func FromKanalMarla(kanal, marla float64) float64 {
	return kanal + marla/MarlaPerKanal
}

// Split decomposes an area in kanal into kila, kanal, marla and sarshai,
// largest unit first. Sarshai is rounded; unless WithoutCarry is given,
// a rounded value that reaches its radix carries into the next unit.
func Split(kanal float64, opts ...Option) (Breakdown, error) {
	if math.IsNaN(kanal) || math.IsInf(kanal, 0) || kanal < 0 {
		return Breakdown{}, fmt.Errorf("%w: %v kanal", ErrInvalidArea, kanal)
	}
	o := options{rounding: HalfEven, carry: true}
	for _, opt := range opts {
		opt(&o)
	}

	kila := math.Floor(kanal / KanalPerKila)
	remain := math.Mod(kanal, KanalPerKila)
	whole := math.Floor(remain)
	marlaFrac := (remain - whole) * MarlaPerKanal
	marla := math.Floor(marlaFrac)
	sarshai := o.rounding.round((marlaFrac - marla) * SarshaiPerMarla)

	b := Breakdown{
		Kila:    int(kila),
		Kanal:   int(whole),
		Marla:   int(marla),
		Sarshai: int(sarshai),
	}
	if o.carry {
		b = b.normalize()
	}
	return b, nil
}

func (b Breakdown) normalize() Breakdown {
	if b.Sarshai >= SarshaiPerMarla {
		b.Marla += b.Sarshai / SarshaiPerMarla
		b.Sarshai %= SarshaiPerMarla
	}
	if b.Marla >= MarlaPerKanal {
		b.Kanal += b.Marla / MarlaPerKanal
		b.Marla %= MarlaPerKanal
	}
	if b.Kanal >= KanalPerKila {
		b.Kila += b.Kanal / KanalPerKila
		b.Kanal %= KanalPerKila
	}
	return b
}

// InKanal reassembles the breakdown into kanal.
func (b Breakdown) InKanal() float64 {
	return float64(b.Kila*KanalPerKila+b.Kanal) +
		float64(b.Marla)/MarlaPerKanal +
		float64(b.Sarshai)/SarshaiPerKanal
}

func (b Breakdown) String() string {
	return fmt.Sprintf("%d kila %d kanal %d marla %d sarshai", b.Kila, b.Kanal, b.Marla, b.Sarshai)
}

// Acres converts kanal to acres, rounded to three decimals.
func Acres(kanal float64) float64 {
	return math.Round(kanal*AcrePerKanal*1000) / 1000
}
