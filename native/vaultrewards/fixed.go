package vaultrewards

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Decimals is the number of fractional digits carried by every Amount.
const Decimals = 6

// Unit is the integer representation of 1.0.
const Unit uint64 = 1_000_000

var unitInt = uint256.NewInt(Unit)

// Amount is an unsigned fixed-point quantity with six fractional digits. The
// zero value is zero. Amounts are immutable; arithmetic returns new values.
type Amount struct {
	v uint256.Int
}

// NewAmount returns the amount representing the whole number n.
func NewAmount(n uint64) (Amount, error) {
	var out Amount
	if _, overflow := out.v.MulOverflow(uint256.NewInt(n), unitInt); overflow {
		return Amount{}, ErrArithmeticOverflow
	}
	return out, nil
}

// MustAmount is NewAmount for constants known to fit.
func MustAmount(n uint64) Amount {
	a, err := NewAmount(n)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromRaw wraps an already scaled integer (micro-units).
func AmountFromRaw(raw uint64) Amount {
	var out Amount
	out.v.SetUint64(raw)
	return out
}

// AmountFromBig wraps an already scaled big integer. Nil reads as zero.
func AmountFromBig(raw *big.Int) (Amount, error) {
	if raw == nil {
		return Amount{}, nil
	}
	if raw.Sign() < 0 {
		return Amount{}, fmt.Errorf("%w: negative amount %s", ErrArithmeticPrecondition, raw)
	}
	v, overflow := uint256.FromBig(raw)
	if overflow {
		return Amount{}, ErrArithmeticOverflow
	}
	return Amount{v: *v}, nil
}

// ParseAmount parses a decimal string such as "320" or "319.9999".
func ParseAmount(s string) (Amount, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Amount{}, nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("parse amount %q: negative", s)
	}
	scaled := d.Shift(Decimals)
	if !scaled.IsInteger() {
		return Amount{}, fmt.Errorf("parse amount %q: more than %d fractional digits", s, Decimals)
	}
	return AmountFromBig(scaled.BigInt())
}

// MustParseAmount is ParseAmount for literals.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Raw returns the scaled integer as a big.Int.
func (a Amount) Raw() *big.Int { return a.v.ToBig() }

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// Cmp compares a and b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

// Equal reports whether a and b are the same quantity.
func (a Amount) Equal(b Amount) bool { return a.v.Eq(&b.v) }

// Add returns a+b.
func (a Amount) Add(b Amount) (Amount, error) {
	var out Amount
	if _, overflow := out.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrArithmeticOverflow
	}
	return out, nil
}

// Sub returns a-b. Callers validate ordering first; an underflow is a defect.
func (a Amount) Sub(b Amount) (Amount, error) {
	var out Amount
	if _, underflow := out.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, fmt.Errorf("%w: %s - %s underflows", ErrArithmeticPrecondition, a, b)
	}
	return out, nil
}

// Mul returns a*b rescaled by one Unit, truncating toward zero.
func (a Amount) Mul(b Amount) (Amount, error) {
	var product uint256.Int
	if _, overflow := product.MulOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrArithmeticOverflow
	}
	var out Amount
	out.v.Div(&product, unitInt)
	return out, nil
}

// Div returns a/b with a pre-scaled numerator, truncating toward zero.
func (a Amount) Div(b Amount) (Amount, error) {
	if b.v.IsZero() {
		return Amount{}, fmt.Errorf("%w: division by zero", ErrArithmeticPrecondition)
	}
	var numerator uint256.Int
	if _, overflow := numerator.MulOverflow(&a.v, unitInt); overflow {
		return Amount{}, ErrArithmeticOverflow
	}
	var out Amount
	out.v.Div(&numerator, &b.v)
	return out, nil
}

// MulUint64 returns a*n without rescaling, e.g. a per-block rate times blocks.
func (a Amount) MulUint64(n uint64) (Amount, error) {
	var out Amount
	if _, overflow := out.v.MulOverflow(&a.v, uint256.NewInt(n)); overflow {
		return Amount{}, ErrArithmeticOverflow
	}
	return out, nil
}

// String renders the amount as a decimal with trailing zeros trimmed.
func (a Amount) String() string {
	return decimal.NewFromBigInt(a.v.ToBig(), -Decimals).String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
