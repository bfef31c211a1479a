package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// Kind classifies a column's value category.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindFloat
	KindString
	KindTime
	KindBool
)

// String returns the canonical category name.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "text"
	case KindTime:
		return "datetime"
	case KindBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether the kind is integer or float.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// ParseKind parses a category name. Common aliases are accepted
// ("int", "string", "bool", "timestamp").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "integer", "int":
		return KindInt, nil
	case "float", "double":
		return KindFloat, nil
	case "text", "string":
		return KindString, nil
	case "datetime", "timestamp", "date":
		return KindTime, nil
	case "boolean", "bool":
		return KindBool, nil
	default:
		return KindUnknown, fmt.Errorf("unknown type category: %q", s)
	}
}

// TimeFormat is the display and export layout for datetime values.
const TimeFormat = "2006-01-02 15:04:05"

// Value is a single tagged cell. Exactly one payload field is meaningful,
// selected by Kind; Null values carry the column kind but no payload.
type Value struct {
	Null  bool
	Kind  Kind
	Int   int64
	Float float64
	Str   string
	Bool  bool
	Time  time.Time
}

// NullValue returns a null value of the given kind.
func NullValue(k Kind) Value { return Value{Null: true, Kind: k} }

// IntValue returns an integer value.
func IntValue(v int64) Value { return Value{Kind: KindInt, Int: v} }

// FloatValue returns a float value.
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// StringValue returns a text value.
func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }

// BoolValue returns a boolean value.
func BoolValue(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// TimeValue returns a datetime value.
func TimeValue(v time.Time) Value { return Value{Kind: KindTime, Time: v} }

// AsFloat returns the numeric payload as a float64. The second return is
// false for nulls and non-numeric values.
func (v Value) AsFloat() (float64, bool) {
	if v.Null {
		return 0, false
	}
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	default:
		return 0, false
	}
}

// String returns the display form: the payload rendered as text, or ""
// for nulls. This is the form used for pattern matching, allowed-value
// comparison, and CSV export.
func (v Value) String() string {
	if v.Null {
		return ""
	}
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return v.Str
	case KindTime:
		return v.Time.Format(TimeFormat)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

// Key returns a grouping key unique per distinct value within a column.
// Nulls share a single key distinct from every non-null value.
func (v Value) Key() string {
	if v.Null {
		return "\x00"
	}
	switch v.Kind {
	case KindInt:
		return "i:" + strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return "f:" + strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return "s:" + v.Str
	case KindTime:
		return "t:" + strconv.FormatInt(v.Time.UnixNano(), 10)
	case KindBool:
		if v.Bool {
			return "b:1"
		}
		return "b:0"
	default:
		return "\x00"
	}
}

// SQL returns the value as a driver-friendly Go type for database
// parameters: nil for nulls, otherwise int64/float64/string/time.Time/bool.
func (v Value) SQL() any {
	if v.Null {
		return nil
	}
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindString:
		return v.Str
	case KindTime:
		return v.Time
	case KindBool:
		return v.Bool
	default:
		return nil
	}
}
