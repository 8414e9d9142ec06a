package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// The backend is loose about types: ids arrive as numbers or strings,
// numbers sometimes as strings, and payloads are sometimes wrapped in an
// object. These helpers absorb that.

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat accepts a JSON number or numeric string. Set is false for null,
// absent, or unparsable values.
type flexFloat struct {
	Value float64
	Set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		*f = flexFloat{Value: v, Set: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat{Value: v, Set: true}
	return nil
}

// firstString returns the first non-empty value.
func firstString[S ~string](vals ...S) string {
	for _, v := range vals {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

// firstFloat returns the first value that was set.
func firstFloat(vals ...flexFloat) (float64, bool) {
	for _, v := range vals {
		if v.Set {
			return v.Value, true
		}
	}
	return 0, false
}

// parseTime accepts RFC 3339 and the backend's naive timestamps.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

var errNoPayload = errors.New("no payload found")

// unwrap finds the payload in body. It tries body itself when it unmarshals
// cleanly into T and carries content, then each wrapper key in order, one
// level deep and then under "data".
func unwrap[T any](body []byte, keys ...string) (T, error) {
	var zero T
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return zero, errNoPayload
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		// Not an object: the payload is the body itself (a bare list).
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return zero, err
		}
		return v, nil
	}

	if v, ok := lookup[T](obj, keys); ok {
		return v, nil
	}
	if raw, ok := obj["data"]; ok && !isNull(raw) {
		var inner map[string]json.RawMessage
		if json.Unmarshal(raw, &inner) == nil {
			if v, ok := lookup[T](inner, keys); ok {
				return v, nil
			}
		}
		var v T
		if json.Unmarshal(raw, &v) == nil {
			return v, nil
		}
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return zero, err
	}
	return v, nil
}

func lookup[T any](obj map[string]json.RawMessage, keys []string) (T, bool) {
	var zero T
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok || isNull(raw) {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, true
		}
	}
	return zero, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
