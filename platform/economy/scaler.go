package economy

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ReferenceAnchor is the price of the cheapest property in the reference
// ruleset (Mediterranean Avenue). Every session amount is the reference
// amount scaled by AnchorValue/ReferenceAnchor.
const ReferenceAnchor = 60

// Reference ruleset constants. Card amounts reference these same units.
const (
	RefSalary         = 200
	RefLuxuryTax      = 75
	RefIncomeTax      = 200
	RefInitialBalance = 15000
)

var ErrBadConfig = errors.New("economy: anchor value must be > 0 and denomination >= 1")

// Config is the per-session economy configuration. Immutable once the
// session starts.
type Config struct {
	// MinDenomination is the smallest currency increment. All scaled
	// amounts are rounded to its nearest multiple.
	MinDenomination int64
	// AnchorValue is the session price of the reference anchor property.
	AnchorValue int64
}

// DefaultConfig reproduces the reference ruleset unchanged.
func DefaultConfig() Config {
	return Config{MinDenomination: 1, AnchorValue: ReferenceAnchor}
}

// Scaler converts reference-ruleset amounts into the session economy.
// It is a pure function of (input, Config) and safe for concurrent use.
type Scaler struct {
	cfg Config
}

func NewScaler(cfg Config) (Scaler, error) {
	if cfg.AnchorValue <= 0 || cfg.MinDenomination < 1 {
		return Scaler{}, ErrBadConfig
	}
	return Scaler{cfg: cfg}, nil
}

func (s Scaler) Config() Config {
	return s.cfg
}

// Scale maps a reference amount to the session amount:
// raw = ref * anchor / 60, rounded half away from zero to an integer,
// then rounded to the nearest multiple of the minimum denomination.
func (s Scaler) Scale(ref decimal.Decimal) int64 {
	raw := ref.Mul(decimal.NewFromInt(s.cfg.AnchorValue)).
		DivRound(decimal.NewFromInt(ReferenceAnchor), 0)
	return s.roundToDenomination(raw.IntPart())
}

// ScaleInt is Scale for the common case of whole reference amounts.
func (s Scaler) ScaleInt(ref int64) int64 {
	return s.Scale(decimal.NewFromInt(ref))
}

func (s Scaler) roundToDenomination(v int64) int64 {
	d := s.cfg.MinDenomination
	if d <= 1 {
		return v
	}
	q := v / d
	r := v % d
	if r < 0 {
		r = -r
	}
	if 2*r >= d {
		if v < 0 {
			q--
		} else {
			q++
		}
	}
	return q * d
}

// Salary is the amount collected when passing Go.
func (s Scaler) Salary() int64 {
	return s.ScaleInt(RefSalary)
}

func (s Scaler) LuxuryTax() int64 {
	return s.ScaleInt(RefLuxuryTax)
}

func (s Scaler) IncomeTax() int64 {
	return s.ScaleInt(RefIncomeTax)
}

// InitialBalance is the starting balance handed to every participant.
func (s Scaler) InitialBalance() int64 {
	return s.ScaleInt(RefInitialBalance)
}

// Factor is the session/reference scale ratio, for display only.
func (s Scaler) Factor() decimal.Decimal {
	return decimal.NewFromInt(s.cfg.AnchorValue).
		Div(decimal.NewFromInt(ReferenceAnchor))
}
