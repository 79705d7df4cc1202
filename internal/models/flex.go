package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FlexInt decodes a JSON number or a numeric string.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*f = 0
			return nil
		}
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	// Integral floats such as 4.0 or 1e3 are accepted; fractions and values
	// outside int64 are not.
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
		return fmt.Errorf("expected integer, got %s", data)
	}
	*f = FlexInt(n)
	return nil
}

// Or returns f, or alt when f is zero.
func (f FlexInt) Or(alt FlexInt) FlexInt {
	if f == 0 {
		return alt
	}
	return f
}

// FlexString decodes a JSON string or number into its string form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = FlexString(n.String())
	}
	return nil
}

// FlexFloat decodes a JSON number or a numeric string; non-numeric strings decode as unset.
type FlexFloat struct {
	Value float64
	Valid bool
	Raw   string
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = FlexFloat{}
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	*f = ParseFlexFloat(raw)
	return nil
}

// ParseFlexFloat builds a FlexFloat from its textual form.
func ParseFlexFloat(raw string) FlexFloat {
	f := FlexFloat{Raw: strings.TrimSpace(raw)}
	if v, err := strconv.ParseFloat(f.Raw, 64); err == nil {
		f.Value, f.Valid = v, true
	}
	return f
}

// MarshalJSON implements json.Marshaler.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	switch {
	case f.Valid:
		return json.Marshal(f.Value)
	case f.Raw != "":
		return json.Marshal(f.Raw)
	default:
		return []byte("null"), nil
	}
}

// String renders the value for display.
func (f FlexFloat) String() string {
	if f.Valid {
		return strconv.FormatFloat(f.Value, 'f', -1, 64)
	}
	if f.Raw == "" {
		return "-"
	}
	return f.Raw
}
