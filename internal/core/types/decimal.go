// Package types provides common type aliases and utilities.
package types

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// DisplayPlaces is the number of fractional digits used when a value is shown or exported.
const DisplayPlaces int32 = 2

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Bounds on accepted magnitudes. Values outside them are treated as malformed
// input; they would otherwise overflow decimal exponents or blow up formatting.
const (
	maxScale     = 64
	maxCoeffBits = 256
)

// Coerce converts an arbitrary form value into Money.
// Anything that is not a finite number (nil, empty or malformed strings, bools, NaN)
// becomes zero; it never fails.
func Coerce(v any) Money {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return bounded(x)
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return bounded(*x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int8:
		return decimal.NewFromInt(int64(x))
	case int16:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return decimal.NewFromInt(int64(x))
	case uint16:
		return decimal.NewFromInt(int64(x))
	case uint32:
		return decimal.NewFromInt(int64(x))
	case uint64:
		return fromUint(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case json.Number:
		return fromString(string(x))
	case string:
		return fromString(x)
	default:
		return decimal.Zero
	}
}

func fromUint(u uint64) Money {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(u), 0)
}

func fromFloat(f float64) Money {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return bounded(decimal.NewFromFloat(f))
}

func fromString(s string) Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return bounded(d)
}

func bounded(d Money) Money {
	exp := d.Exponent()
	if exp > maxScale || exp < -maxScale || d.Coefficient().BitLen() > maxCoeffBits {
		return decimal.Zero
	}
	return d
}

// Round2 rounds a value to display precision. Never store the result.
func Round2(m Money) Money {
	return m.Round(DisplayPlaces)
}

// Format2 renders a value with exactly two fractional digits ("210.00").
func Format2(m Money) string {
	return m.StringFixed(DisplayPlaces)
}
