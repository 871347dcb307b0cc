package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a lenient monetary value. It decodes from a JSON number or a
// numeric string; anything else decodes to 0 instead of failing.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			*a = 0
			return nil
		}
	} else {
		raw = string(data)
	}

	*a = ParseAmount(raw)
	return nil
}

// ParseAmount coerces s to a non-negative finite amount, or 0.
func ParseAmount(s string) Amount {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return Amount(f).Sanitize()
}

// Sanitize maps NaN, infinities and negative values to 0.
func (a Amount) Sanitize() Amount {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return a
}
