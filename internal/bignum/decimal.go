// Package bignum implements PLC's arbitrary-precision Integer and Decimal
// runtime representations. Integer values are plain *math/big.Int, with no
// wrapper type in this package; Decimal pairs a big.Int unscaled value with a base-10 scale so that
// "12.340" round-trips exactly as Unscaled=12340, Scale=3 — no binary
// floating point is ever involved in a PLC program's arithmetic.
package bignum

import (
	"fmt"
	"math/big"
	"strings"
)

// Decimal is Unscaled / 10^Scale, Scale >= 0.
type Decimal struct {
	Unscaled *big.Int
	Scale    int32
}

// ParseDecimal decodes a lexer-validated decimal literal ("[+-]?\d+\.\d+")
// into its exact Decimal representation.
func ParseDecimal(literal string) (Decimal, bool) {
	neg := false
	text := literal
	if strings.HasPrefix(text, "+") {
		text = text[1:]
	} else if strings.HasPrefix(text, "-") {
		neg = true
		text = text[1:]
	}
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return Decimal{}, false
	}
	digits := text[:dot] + text[dot+1:]
	scale := len(text) - dot - 1

	unscaled, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Decimal{}, false
	}
	if neg {
		unscaled.Neg(unscaled)
	}
	return Decimal{Unscaled: unscaled, Scale: int32(scale)}, true
}

func (d Decimal) rescale(scale int32) Decimal {
	if scale == d.Scale {
		return d
	}
	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale-d.Scale)), nil)
	return Decimal{Unscaled: new(big.Int).Mul(d.Unscaled, factor), Scale: scale}
}

func maxScale(a, b Decimal) int32 {
	if a.Scale > b.Scale {
		return a.Scale
	}
	return b.Scale
}

// Add returns a + b, at the larger of the two operand scales.
func Add(a, b Decimal) Decimal {
	scale := maxScale(a, b)
	ar, br := a.rescale(scale), b.rescale(scale)
	return Decimal{Unscaled: new(big.Int).Add(ar.Unscaled, br.Unscaled), Scale: scale}
}

// Sub returns a - b, at the larger of the two operand scales.
func Sub(a, b Decimal) Decimal {
	scale := maxScale(a, b)
	ar, br := a.rescale(scale), b.rescale(scale)
	return Decimal{Unscaled: new(big.Int).Sub(ar.Unscaled, br.Unscaled), Scale: scale}
}

// Mul returns a * b at the sum of the operand scales (the exact product,
// no rounding needed).
func Mul(a, b Decimal) Decimal {
	return Decimal{Unscaled: new(big.Int).Mul(a.Unscaled, b.Unscaled), Scale: a.Scale + b.Scale}
}

// Div returns a / b rounded half-to-even (banker's rounding) to the larger
// of the two operand scales. ok is false when b is zero.
func Div(a, b Decimal) (result Decimal, ok bool) {
	if b.Unscaled.Sign() == 0 {
		return Decimal{}, false
	}
	scale := maxScale(a, b)

	// Exact quotient at `scale` digits is:
	//   (a.Unscaled * 10^(scale - a.Scale + b.Scale)) / b.Unscaled
	// derived from a/10^a.Scale divided by b/10^b.Scale, scaled to `scale`.
	shift := scale - a.Scale + b.Scale
	numerator := new(big.Int).Set(a.Unscaled)
	if shift > 0 {
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(shift)), nil)
		numerator.Mul(numerator, factor)
	} else if shift < 0 {
		factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-shift)), nil)
		numerator.Quo(numerator, factor)
	}

	quotient, remainder := new(big.Int).QuoRem(numerator, b.Unscaled, new(big.Int))
	quotient = roundHalfEven(quotient, remainder, b.Unscaled)
	return Decimal{Unscaled: quotient, Scale: scale}, true
}

// roundHalfEven adjusts a truncated quotient by comparing 2*|remainder| to
// |divisor|: below it rounds down, above it rounds up, and exactly at it
// rounds to whichever neighbor is even (banker's rounding).
func roundHalfEven(quotient, remainder, divisor *big.Int) *big.Int {
	if remainder.Sign() == 0 {
		return quotient
	}
	twiceRemainder := new(big.Int).Mul(remainder, big.NewInt(2))
	twiceRemainder.Abs(twiceRemainder)
	absDivisor := new(big.Int).Abs(divisor)

	cmp := twiceRemainder.Cmp(absDivisor)
	roundAway := cmp > 0
	if cmp == 0 {
		roundAway = quotient.Bit(0) == 1 // round to even: only bump an odd quotient
	}
	if !roundAway {
		return quotient
	}

	step := big.NewInt(1)
	if (remainder.Sign() < 0) != (divisor.Sign() < 0) {
		step.Neg(step)
	}
	return new(big.Int).Add(quotient, step)
}

// Cmp compares a and b by exact numeric value, independent of scale
// (1.0 and 1.00 compare equal).
func Cmp(a, b Decimal) int {
	scale := maxScale(a, b)
	return a.rescale(scale).Unscaled.Cmp(b.rescale(scale).Unscaled)
}

// String renders the decimal in fixed-point form, never scientific
// notation, e.g. Unscaled=12340 Scale=3 -> "12.340".
func (d Decimal) String() string {
	neg := d.Unscaled.Sign() < 0
	digits := new(big.Int).Abs(d.Unscaled).String()
	for int32(len(digits)) <= d.Scale {
		digits = "0" + digits
	}
	whole := digits[:len(digits)-int(d.Scale)]
	frac := digits[len(digits)-int(d.Scale):]
	sign := ""
	if neg {
		sign = "-"
	}
	if d.Scale == 0 {
		return fmt.Sprintf("%s%s", sign, whole)
	}
	return fmt.Sprintf("%s%s.%s", sign, whole, frac)
}
