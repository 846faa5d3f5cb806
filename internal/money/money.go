// Package money holds the canonical price representation used across the
// storefront. Amounts are whole currency units (COP has no cents in practice).
package money

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Amount is a price in whole currency units.
type Amount int64

// ErrInvalidPrice is returned when a price value cannot be interpreted.
var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice converts a locale-formatted price such as "60.000" into an Amount.
// Every dot is treated as a thousands separator and removed before parsing.
func ParsePrice(s string) (Amount, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ".", ""))
	if cleaned == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}

	return Amount(math.Round(f)), nil
}

// ToNumber coerces a numeric or string price into an Amount.
func ToNumber(v any) (Amount, error) {
	switch p := v.(type) {
	case Amount:
		return p, nil
	case int:
		return Amount(p), nil
	case int64:
		return Amount(p), nil
	case float64:
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, p)
		}
		return Amount(math.Round(p)), nil
	case json.Number:
		return ParsePrice(p.String())
	case string:
		return ParsePrice(p)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", ErrInvalidPrice, v)
	}
}

// Mul returns the amount multiplied by a quantity.
func (a Amount) Mul(qty int) Amount {
	return a * Amount(qty)
}

// UnmarshalJSON accepts either a JSON number or a locale-formatted string.
// Data written by older clients stored prices as "60.000".
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParsePrice(s)
		if err != nil {
			return err
		}
		*a = v
		return nil
	}

	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPrice, data)
	}
	*a = Amount(math.Round(f))
	return nil
}
