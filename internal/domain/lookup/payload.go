package lookup

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payload holds the raw fields of one source-native record. The three record
// stores evolved independently, so the same logical attribute can live under
// several historical key names. All reads go through the ordered alias
// helpers below instead of ad hoc key lookups, and every helper distinguishes
// "key absent" from "key present with a zero value".
type Payload map[string]any

// String returns the first non-empty string value found under the given keys,
// in order.
func (p Payload) String(keys ...string) (string, bool) {
	for _, key := range keys {
		v, ok := p[key]
		if !ok {
			continue
		}
		s, ok := toString(v)
		if ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

// StringOr is String with a default.
func (p Payload) StringOr(def string, keys ...string) string {
	if s, ok := p.String(keys...); ok {
		return s
	}
	return def
}

// Number returns the first numeric value present under the given keys, in
// order. A present zero counts as found; an unparseable value does not.
func (p Payload) Number(keys ...string) (decimal.Decimal, bool) {
	for _, key := range keys {
		v, ok := p[key]
		if !ok {
			continue
		}
		if d, ok := toDecimal(v); ok {
			return d, true
		}
	}
	return decimal.Zero, false
}

// NumberOr is Number with a default, implementing the uniform coercion rule:
// unparseable or absent values fall back to the documented default.
func (p Payload) NumberOr(def decimal.Decimal, keys ...string) decimal.Decimal {
	if d, ok := p.Number(keys...); ok {
		return d
	}
	return def
}

// Bool returns true when any of the keys holds a truthy value.
func (p Payload) Bool(keys ...string) bool {
	for _, key := range keys {
		v, ok := p[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case bool:
			if t {
				return true
			}
		case string:
			s := strings.ToLower(strings.TrimSpace(t))
			if s == "true" || s == "yes" || s == "y" || s == "1" {
				return true
			}
		default:
			if d, ok := toDecimal(v); ok && !d.IsZero() {
				return true
			}
		}
	}
	return false
}

// Time returns the first parseable timestamp under the given keys.
func (p Payload) Time(keys ...string) (time.Time, bool) {
	for _, key := range keys {
		v, ok := p[key]
		if !ok {
			continue
		}
		if t, ok := toTime(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// timeLayouts are tried in order when a date arrives as a string.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	}
	return "", false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	}
	return decimal.Zero, false
}
