// Package number provides the arbitrary-precision numeric model shared by
// Marlin HIR literals and the unit system.
//
// A Number is one of three sealed variants: Int (fixed 64-bit), Big
// (arbitrary-precision integer), or Decimal (arbitrary-precision decimal).
// Arithmetic is closed over the union via a promotion lattice:
//
//	Int ⊂ Big ⊂ Decimal
//
// Mixed-variant operations promote both operands to the higher variant.
// Decimal arithmetic here is exact: multiplication combines coefficients
// and exponents directly, no rounding context is involved.
package number

import (
	"math"
	"math/big"
	"strconv"

	"github.com/cockroachdb/apd/v3"

	"github.com/marlinshell/marlin/internal/diag"
)

// Number is a sealed interface over the three numeric variants.
// Only Int, Big, and Decimal implement it.
type Number interface {
	isNumber()
	String() string
}

// Int is a fixed-width 64-bit signed integer.
type Int int64

func (Int) isNumber() {}

func (n Int) String() string {
	return strconv.FormatInt(int64(n), 10)
}

// Big is an arbitrary-precision signed integer.
type Big struct {
	Int *big.Int
}

func (Big) isNumber() {}

func (n Big) String() string {
	return n.Int.String()
}

// Decimal is an arbitrary-precision signed decimal.
type Decimal struct {
	Dec *apd.Decimal
}

func (Decimal) isNumber() {}

func (n Decimal) String() string {
	return n.Dec.Text('f')
}

// FromInt64 creates a fixed-width integer Number.
func FromInt64(i int64) Number {
	return Int(i)
}

// FromUint64 creates a Number from an unsigned 64-bit value. Values above
// the int64 range land in the Big variant so no magnitude is lost.
func FromUint64(u uint64) Number {
	if u <= uint64(1<<63-1) {
		return Int(int64(u))
	}
	return Big{Int: new(big.Int).SetUint64(u)}
}

// FromBig creates an arbitrary-precision integer Number. The argument is
// not copied; callers hand over ownership.
func FromBig(i *big.Int) Number {
	return Big{Int: i}
}

// FromFloat64 creates a Decimal Number. NaN and infinities are rejected
// with a conversion error; they have no decimal representation.
func FromFloat64(f float64) (Number, error) {
	// SetFloat64 accepts NaN and infinities as non-finite decimal forms,
	// so finiteness must be checked here.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, diag.Untaggedf(diag.CodeConversion, "cannot represent %v as a decimal", f)
	}
	d := new(apd.Decimal)
	if _, err := d.SetFloat64(f); err != nil {
		return nil, diag.Untaggedf(diag.CodeConversion, "cannot represent %v as a decimal", f)
	}
	return Decimal{Dec: d}, nil
}

// ParseDecimal creates a Decimal Number from its text form.
func ParseDecimal(s string) (Number, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, diag.Untaggedf(diag.CodeConversion, "malformed decimal literal %q", s)
	}
	return Decimal{Dec: d}, nil
}

// Mul multiplies two Numbers following the promotion lattice. Operands of
// the same variant stay in that variant; Int multiplication may wrap
// silently, mirroring native machine arithmetic (known edge case, not
// corrected here). Mixed operands promote to the higher variant.
func Mul(a, b Number) Number {
	switch x := a.(type) {
	case Int:
		switch y := b.(type) {
		case Int:
			return Int(int64(x) * int64(y))
		case Big:
			return Big{Int: new(big.Int).Mul(big.NewInt(int64(x)), y.Int)}
		case Decimal:
			return Decimal{Dec: mulDecimal(decimalFromInt64(int64(x)), y.Dec)}
		}
	case Big:
		switch y := b.(type) {
		case Int:
			return Big{Int: new(big.Int).Mul(x.Int, big.NewInt(int64(y)))}
		case Big:
			return Big{Int: new(big.Int).Mul(x.Int, y.Int)}
		case Decimal:
			return Decimal{Dec: mulDecimal(decimalFromBig(x.Int), y.Dec)}
		}
	case Decimal:
		switch y := b.(type) {
		case Int:
			return Decimal{Dec: mulDecimal(x.Dec, decimalFromInt64(int64(y)))}
		case Big:
			return Decimal{Dec: mulDecimal(x.Dec, decimalFromBig(y.Int))}
		case Decimal:
			return Decimal{Dec: mulDecimal(x.Dec, y.Dec)}
		}
	}
	panic("number: unknown Number variant")
}

// MulUint32 multiplies by a literal scaling factor. The factor counts as a
// fixed-width integer for promotion purposes: it never forces a promotion
// by itself.
func MulUint32(n Number, m uint32) Number {
	switch x := n.(type) {
	case Int:
		return Int(int64(x) * int64(m))
	case Big:
		return Big{Int: new(big.Int).Mul(x.Int, big.NewInt(int64(m)))}
	case Decimal:
		return Decimal{Dec: mulDecimal(x.Dec, decimalFromInt64(int64(m)))}
	}
	panic("number: unknown Number variant")
}

// Int64 converts to a 64-bit signed integer. Big values outside the int64
// range and all Decimal values fail with an explicit conversion error;
// there is no silent truncation.
func Int64(n Number) (int64, error) {
	switch x := n.(type) {
	case Int:
		return int64(x), nil
	case Big:
		if !x.Int.IsInt64() {
			return 0, diag.Untagged(diag.CodeConversion, "cannot convert big integer to int64, too large")
		}
		return x.Int.Int64(), nil
	case Decimal:
		return 0, diag.Untagged(diag.CodeConversion, "cannot convert decimal to int64")
	}
	panic("number: unknown Number variant")
}

// Uint64 converts to a 64-bit unsigned integer. A negative Int reinterprets
// its bits, mirroring a native integer cast (documented quirk carried from
// the fixed-width representation). Out-of-range Big values and all Decimal
// values fail explicitly.
func Uint64(n Number) (uint64, error) {
	switch x := n.(type) {
	case Int:
		return uint64(x), nil
	case Big:
		if !x.Int.IsUint64() {
			return 0, diag.Untagged(diag.CodeConversion, "cannot convert big integer to uint64, too large")
		}
		return x.Int.Uint64(), nil
	case Decimal:
		return 0, diag.Untagged(diag.CodeConversion, "cannot convert decimal to uint64")
	}
	panic("number: unknown Number variant")
}

// ToBigInt converts to an arbitrary-precision integer. Int and Big always
// succeed. Decimal truncates toward zero: the scale is discarded, which is
// intentional and not rounding. The error path exists because the
// conversion is fallible by contract, even though no current variant
// reaches it.
func ToBigInt(n Number) (*big.Int, error) {
	switch x := n.(type) {
	case Int:
		return big.NewInt(int64(x)), nil
	case Big:
		return new(big.Int).Set(x.Int), nil
	case Decimal:
		return truncateDecimal(x.Dec), nil
	}
	return nil, diag.Untagged(diag.CodeConversion, "cannot convert to big integer")
}

// Compare orders two Numbers. Variants rank before values: Big < Int <
// Decimal (the union's declaration order), with value comparison only
// inside a variant. This mirrors the source representation's derived
// ordering and is kept for deterministic sorting, not for numeric
// comparison across variants.
func Compare(a, b Number) int {
	ra, rb := variantRank(a), variantRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case Big:
		return x.Int.Cmp(b.(Big).Int)
	case Int:
		y := b.(Int)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case Decimal:
		return x.Dec.Cmp(b.(Decimal).Dec)
	}
	panic("number: unknown Number variant")
}

func variantRank(n Number) int {
	switch n.(type) {
	case Big:
		return 0
	case Int:
		return 1
	case Decimal:
		return 2
	}
	panic("number: unknown Number variant")
}

func decimalFromInt64(i int64) *apd.Decimal {
	return apd.New(i, 0)
}

func decimalFromBig(i *big.Int) *apd.Decimal {
	var coeff apd.BigInt
	coeff.SetMathBigInt(i)
	d := apd.NewWithBigInt(&coeff, 0)
	return d
}

// mulDecimal multiplies two finite decimals exactly: coefficients multiply,
// exponents add. No rounding context is involved.
func mulDecimal(a, b *apd.Decimal) *apd.Decimal {
	var coeff apd.BigInt
	coeff.Mul(&a.Coeff, &b.Coeff)
	d := apd.NewWithBigInt(&coeff, a.Exponent+b.Exponent)
	d.Negative = a.Negative != b.Negative
	if coeff.Sign() == 0 {
		d.Negative = false
	}
	return d
}

// truncateDecimal drops the fractional part of a finite decimal, rounding
// toward zero.
func truncateDecimal(d *apd.Decimal) *big.Int {
	out := new(big.Int).Set(d.Coeff.MathBigInt())
	exp := int64(d.Exponent)
	if exp > 0 {
		out.Mul(out, new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil))
	} else if exp < 0 {
		out.Quo(out, new(big.Int).Exp(big.NewInt(10), big.NewInt(-exp), nil))
	}
	if d.Negative {
		out.Neg(out)
	}
	return out
}
