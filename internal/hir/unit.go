package hir

import (
	"fmt"
	"math/big"

	"github.com/marlinshell/marlin/internal/diag"
	"github.com/marlinshell/marlin/internal/number"
)

// Unit is the closed set of filesize and duration units.
type Unit int

const (
	// Filesize units: metric (powers of 1000).
	UnitByte Unit = iota
	UnitKilobyte
	UnitMegabyte
	UnitGigabyte
	UnitTerabyte
	UnitPetabyte

	// Filesize units: binary (powers of 1024).
	UnitKibibyte
	UnitMebibyte
	UnitGibibyte
	UnitTebibyte
	UnitPebibyte

	// Duration units.
	UnitNanosecond
	UnitMicrosecond
	UnitMillisecond
	UnitSecond
	UnitMinute
	UnitHour
	UnitDay
	UnitWeek
)

var unitNames = [...]string{
	UnitByte:        "B",
	UnitKilobyte:    "KB",
	UnitMegabyte:    "MB",
	UnitGigabyte:    "GB",
	UnitTerabyte:    "TB",
	UnitPetabyte:    "PB",
	UnitKibibyte:    "KiB",
	UnitMebibyte:    "MiB",
	UnitGibibyte:    "GiB",
	UnitTebibyte:    "TiB",
	UnitPebibyte:    "PiB",
	UnitNanosecond:  "ns",
	UnitMicrosecond: "us",
	UnitMillisecond: "ms",
	UnitSecond:      "sec",
	UnitMinute:      "min",
	UnitHour:        "hr",
	UnitDay:         "day",
	UnitWeek:        "wk",
}

// String returns the unit's source suffix.
func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return "?"
}

// UnitFromString parses a unit suffix.
func UnitFromString(s string) (Unit, bool) {
	for u, name := range unitNames {
		if name == s {
			return Unit(u), true
		}
	}
	return 0, false
}

// IsDuration reports whether the unit is a duration unit.
func (u Unit) IsDuration() bool {
	return u >= UnitNanosecond
}

// Quantity is the canonical value a sized quantity converts to: a byte
// count for filesize units, a nanosecond count for duration units.
type Quantity interface {
	isQuantity()
	String() string
}

// Filesize is a canonical byte count.
type Filesize uint64

func (Filesize) isQuantity() {}

func (f Filesize) String() string {
	return fmt.Sprintf("%d B", uint64(f))
}

// Duration is a canonical nanosecond count. It never narrows; arbitrarily
// large durations are representable.
type Duration struct {
	Nanos *big.Int
}

func (Duration) isQuantity() {}

func (d Duration) String() string {
	return d.Nanos.String() + " ns"
}

// Compute converts a magnitude expressed in this unit to its canonical
// quantity. Filesize scaling applies chained fixed-width factors, so an Int
// magnitude can wrap like native machine arithmetic before the final
// narrowing (known edge carried from the fixed-width representation); the
// narrowing itself fails explicitly rather than truncating.
func (u Unit) Compute(magnitude number.Number) (Quantity, error) {
	switch u {
	case UnitByte:
		return filesize(magnitude)
	case UnitKilobyte:
		return filesize(scale(magnitude, 1000))
	case UnitMegabyte:
		return filesize(scale(magnitude, 1000, 1000))
	case UnitGigabyte:
		return filesize(scale(magnitude, 1000, 1000, 1000))
	case UnitTerabyte:
		return filesize(scale(magnitude, 1000, 1000, 1000, 1000))
	case UnitPetabyte:
		return filesize(scale(magnitude, 1000, 1000, 1000, 1000, 1000))

	case UnitKibibyte:
		return filesize(scale(magnitude, 1024))
	case UnitMebibyte:
		return filesize(scale(magnitude, 1024, 1024))
	case UnitGibibyte:
		return filesize(scale(magnitude, 1024, 1024, 1024))
	case UnitTebibyte:
		return filesize(scale(magnitude, 1024, 1024, 1024, 1024))
	case UnitPebibyte:
		return filesize(scale(magnitude, 1024, 1024, 1024, 1024, 1024))

	case UnitNanosecond:
		return duration(magnitude)
	case UnitMicrosecond:
		return duration(magnitude, 1000)
	case UnitMillisecond:
		return duration(magnitude, 1000, 1000)
	case UnitSecond:
		return duration(magnitude, 1000, 1000, 1000)
	case UnitMinute:
		return duration(magnitude, 60, 1000, 1000, 1000)
	case UnitHour:
		return duration(magnitude, 60, 60, 1000, 1000, 1000)
	case UnitDay:
		return duration(magnitude, 24, 60, 60, 1000, 1000, 1000)
	case UnitWeek:
		return duration(magnitude, 7, 24, 60, 60, 1000, 1000, 1000)
	}
	panic("hir: unknown Unit")
}

func scale(n number.Number, factors ...uint32) number.Number {
	for _, f := range factors {
		n = number.MulUint32(n, f)
	}
	return n
}

// filesize narrows a scaled byte count to the canonical unsigned 64-bit
// form. Filesize has no fractional or arbitrarily large representation.
func filesize(sizeInBytes number.Number) (Quantity, error) {
	switch x := sizeInBytes.(type) {
	case number.Int:
		return Filesize(uint64(x)), nil
	case number.Big:
		if !x.Int.IsUint64() {
			return nil, diag.Untagged(diag.CodeConversion,
				"big integer too large to convert to a filesize")
		}
		return Filesize(x.Int.Uint64()), nil
	case number.Decimal:
		return nil, diag.Untagged(diag.CodeConversion,
			"decimal cannot be converted to a filesize")
	}
	panic("hir: unknown Number variant")
}

// duration converts a magnitude to canonical nanoseconds by exact
// arbitrary-precision multiplication. The magnitude conversion is fallible
// by contract; the error propagates.
func duration(magnitude number.Number, factors ...int64) (Quantity, error) {
	nanos, err := number.ToBigInt(magnitude)
	if err != nil {
		return nil, err
	}
	for _, f := range factors {
		nanos.Mul(nanos, big.NewInt(f))
	}
	return Duration{Nanos: nanos}, nil
}
