package fixed

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// FracBits is the number of fractional bits; the remaining 80 of the 128-bit
// value hold the signed integer part.
const FracBits = 48

var (
	ErrOverflow       = errors.New("fixed: overflow")
	ErrDivisionByZero = errors.New("fixed: division by zero")
)

var (
	maxRaw = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 127), uint256.NewInt(1))
	minRaw = new(uint256.Int).Neg(new(uint256.Int).Lsh(uint256.NewInt(1), 127))
	oneRaw = new(uint256.Int).Lsh(uint256.NewInt(1), FracBits)

	// 2^48 and 5^48: raw/2^48 == raw*5^48/10^48, which keeps decimal conversion exact.
	scaleBig = new(big.Int).Lsh(big.NewInt(1), FracBits)
	pow5Big  = new(big.Int).Exp(big.NewInt(5), big.NewInt(FracBits), nil)
)

// Fixed is a signed binary fixed-point number with 80 integer bits and 48
// fractional bits. The raw value is a two's complement 128-bit integer held in
// 256-bit words so products never wrap before they are range checked.
//
// The zero value is 0.
type Fixed struct {
	raw uint256.Int
}

var (
	Zero = Fixed{}
	One  = Fixed{raw: *oneRaw}
	// Delta is the smallest positive value, 2^-48.
	Delta    = Fixed{raw: *uint256.NewInt(1)}
	MaxValue = Fixed{raw: *maxRaw}
	MinValue = Fixed{raw: *minRaw}
)

func fromRaw(z *uint256.Int) (Fixed, bool) {
	if z.Sgt(maxRaw) || z.Slt(minRaw) {
		return Zero, false
	}
	return Fixed{raw: *z}, true
}

func fromBig(b *big.Int) (Fixed, bool) {
	if b.BitLen() > 128 {
		return Zero, false
	}
	var z uint256.Int
	if z.SetFromBig(new(big.Int).Abs(b)) {
		return Zero, false
	}
	if b.Sign() < 0 {
		z.Neg(&z)
	}
	return fromRaw(&z)
}

func (f Fixed) big() *big.Int {
	if f.raw.Sign() < 0 {
		var abs uint256.Int
		abs.Neg(&f.raw)
		return new(big.Int).Neg(abs.ToBig())
	}
	return f.raw.ToBig()
}

// FromInt64 converts an integer. Every int64 fits in the integer part.
func FromInt64(v int64) Fixed {
	var z uint256.Int
	if v < 0 {
		z.SetUint64(uint64(-v))
		z.Lsh(&z, FracBits)
		z.Neg(&z)
	} else {
		z.SetUint64(uint64(v))
		z.Lsh(&z, FracBits)
	}
	return Fixed{raw: z}
}

// FromFloat64 converts f rounding to the nearest representable value, ties
// away from zero.
func FromFloat64(f float64) (Fixed, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Zero, fmt.Errorf("from float %v: %w", f, ErrOverflow)
	}
	bf := new(big.Float).SetPrec(256).SetFloat64(f)
	bf.SetMantExp(bf, FracBits)
	if bf.Sign() < 0 {
		bf.Sub(bf, big.NewFloat(0.5))
	} else {
		bf.Add(bf, big.NewFloat(0.5))
	}
	i, _ := bf.Int(nil)
	v, ok := fromBig(i)
	if !ok {
		return Zero, fmt.Errorf("from float %v: %w", f, ErrOverflow)
	}
	return v, nil
}

// FromDecimal converts d rounding to the nearest representable value, ties
// away from zero.
func FromDecimal(d decimal.Decimal) (Fixed, error) {
	scaled := d.Mul(decimal.NewFromBigInt(scaleBig, 0)).Round(0)
	v, ok := fromBig(scaled.BigInt())
	if !ok {
		return Zero, fmt.Errorf("from decimal %s: %w", d, ErrOverflow)
	}
	return v, nil
}

// MustFromDecimal is FromDecimal for literals known to be in range.
func MustFromDecimal(s string) Fixed {
	v, err := FromDecimal(decimal.RequireFromString(s))
	if err != nil {
		panic(err)
	}
	return v
}

// Float64 returns the nearest float64.
func (f Fixed) Float64() float64 {
	bf := new(big.Float).SetInt(f.big())
	bf.SetMantExp(bf, -FracBits)
	v, _ := bf.Float64()
	return v
}

// Decimal returns the exact decimal value of f.
func (f Fixed) Decimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Mul(f.big(), pow5Big), -FracBits)
}

func (f Fixed) String() string {
	return f.Decimal().String()
}

// StringFixed formats f with the given number of decimal places, rounding
// half away from zero.
func (f Fixed) StringFixed(places int32) string {
	return f.Decimal().StringFixed(places)
}

func (f Fixed) Add(g Fixed) (Fixed, error) {
	var z uint256.Int
	z.Add(&f.raw, &g.raw)
	v, ok := fromRaw(&z)
	if !ok {
		return Zero, fmt.Errorf("add %s + %s: %w", f, g, ErrOverflow)
	}
	return v, nil
}

func (f Fixed) Sub(g Fixed) (Fixed, error) {
	var z uint256.Int
	z.Sub(&f.raw, &g.raw)
	v, ok := fromRaw(&z)
	if !ok {
		return Zero, fmt.Errorf("sub %s - %s: %w", f, g, ErrOverflow)
	}
	return v, nil
}

// Mul rounds toward negative infinity.
func (f Fixed) Mul(g Fixed) (Fixed, error) {
	// |f|,|g| <= 2^127 so the full product fits in 255 bits plus sign.
	var prod, z uint256.Int
	prod.Mul(&f.raw, &g.raw)
	z.SRsh(&prod, FracBits)
	v, ok := fromRaw(&z)
	if !ok {
		return Zero, fmt.Errorf("mul %s * %s: %w", f, g, ErrOverflow)
	}
	return v, nil
}

// Div truncates toward zero.
func (f Fixed) Div(g Fixed) (Fixed, error) {
	if g.raw.IsZero() {
		return Zero, fmt.Errorf("div %s / 0: %w", f, ErrDivisionByZero)
	}
	var num, z uint256.Int
	num.Lsh(&f.raw, FracBits)
	z.SDiv(&num, &g.raw)
	v, ok := fromRaw(&z)
	if !ok {
		return Zero, fmt.Errorf("div %s / %s: %w", f, g, ErrOverflow)
	}
	return v, nil
}

func (f Fixed) Cmp(g Fixed) int {
	switch {
	case f.raw.Slt(&g.raw):
		return -1
	case f.raw.Sgt(&g.raw):
		return 1
	default:
		return 0
	}
}

func (f Fixed) Equal(g Fixed) bool       { return f.raw.Eq(&g.raw) }
func (f Fixed) LessThan(g Fixed) bool    { return f.Cmp(g) < 0 }
func (f Fixed) GreaterThan(g Fixed) bool { return f.Cmp(g) > 0 }
func (f Fixed) IsZero() bool             { return f.raw.IsZero() }

// Sign returns -1, 0 or +1.
func (f Fixed) Sign() int {
	return f.raw.Sign()
}

func (f Fixed) Min(g Fixed) Fixed {
	if g.LessThan(f) {
		return g
	}
	return f
}

func (f Fixed) Max(g Fixed) Fixed {
	if g.GreaterThan(f) {
		return g
	}
	return f
}

// Clamp bounds f below by lo first and then above by hi, so hi wins when
// lo > hi.
func (f Fixed) Clamp(lo, hi Fixed) Fixed {
	return f.Max(lo).Min(hi)
}
