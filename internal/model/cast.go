package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// castJSON decodes b into dst, casting compatible values to the schema type:
// numeric strings and booleans become numbers, numbers and booleans become
// strings, and a lone scalar becomes a one-element list. Objects,
// non-numeric strings and fractional counts are rejected.
//
// null reports an empty numeric string, which is stored as no value.
func castJSON(b []byte, dst any) (null bool, err error) {
	v, err := decodeAny(b)
	if err != nil {
		return false, err
	}

	switch d := dst.(type) {
	case *string:
		*d, err = castString(v)
	case *Difficulty:
		var s string
		s, err = castString(v)
		*d = Difficulty(s)
	case *int:
		var n *int
		n, err = castInt(v)
		if n == nil && err == nil {
			return true, nil
		}
		if n != nil {
			*d = *n
		}
	case *[]string:
		*d, err = castStrings(v)
	default:
		err = json.Unmarshal(b, dst)
	}

	return false, err
}

func decodeAny(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func castString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("cannot cast %T to string", v)
	}
}

func castInt(v any) (*int, error) {
	var f float64

	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return nil, err
		}
		f = n
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		f = n
	case bool:
		if t {
			f = 1
		}
	default:
		return nil, fmt.Errorf("cannot cast %T to number", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return nil, fmt.Errorf("%v is not a whole number", f)
	}

	n := int(f)
	return &n, nil
}

func castStrings(v any) ([]string, error) {
	items, ok := v.([]any)
	if !ok {
		s, err := castString(v)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		s, err := castString(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// truthyJSON applies JavaScript truthiness to a raw JSON value.
func truthyJSON(raw []byte) bool {
	s := strings.TrimSpace(string(raw))
	switch s {
	case "", "null", `""`, "false":
		return false
	}
	if n, err := json.Number(s).Float64(); err == nil && n == 0 {
		return false
	}
	return true
}
