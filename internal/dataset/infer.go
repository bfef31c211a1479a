package dataset

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the datetime layouts recognized during inference,
// tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// InferColumn converts raw string cells into a typed column. Empty cells
// are null. The category is decided over the non-null cells: if every one
// parses as a number, the column is integer when all values equal their
// integer truncation and float otherwise; failing that, boolean if every
// cell is a true/false literal, then datetime if every cell matches a
// known layout; otherwise text.
func InferColumn(name string, cells []string) Column {
	kind := inferKind(cells)

	values := make([]Value, len(cells))
	for i, cell := range cells {
		if cell == "" {
			values[i] = NullValue(kind)
			continue
		}
		values[i] = parseCell(cell, kind)
	}
	return Column{Name: name, Kind: kind, Values: values}
}

func inferKind(cells []string) Kind {
	nonNull := 0
	allInt := true
	allNum := true
	allBool := true
	allTime := true

	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonNull++

		if allNum {
			f, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				allNum = false
				allInt = false
			} else if f != float64(int64(f)) || strings.ContainsAny(cell, ".eE") {
				allInt = false
			}
		}
		if allBool && !isBoolLiteral(cell) {
			allBool = false
		}
		if allTime && !isTimeLiteral(cell) {
			allTime = false
		}
	}

	switch {
	case nonNull == 0:
		return KindUnknown
	case allInt:
		return KindInt
	case allNum:
		return KindFloat
	case allBool:
		return KindBool
	case allTime:
		return KindTime
	default:
		return KindString
	}
}

func parseCell(cell string, kind Kind) Value {
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			// Integral float forms like "3.0" classify as integer.
			f, _ := strconv.ParseFloat(cell, 64)
			n = int64(f)
		}
		return IntValue(n)
	case KindFloat:
		f, _ := strconv.ParseFloat(cell, 64)
		return FloatValue(f)
	case KindBool:
		return BoolValue(parseBoolLiteral(cell))
	case KindTime:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, cell); err == nil {
				return TimeValue(ts)
			}
		}
		return StringValue(cell)
	default:
		return StringValue(cell)
	}
}

// ParseLiteral parses a raw string into a value of the given kind, for
// caller-supplied replacement literals. Unparseable input falls back to
// a text value.
func ParseLiteral(s string, kind Kind) Value {
	if s == "" {
		return NullValue(kind)
	}
	switch kind {
	case KindInt:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntValue(n)
		}
	case KindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return FloatValue(f)
		}
	case KindBool:
		if isBoolLiteral(s) {
			return BoolValue(parseBoolLiteral(s))
		}
	case KindTime:
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return TimeValue(ts)
			}
		}
	}
	return StringValue(s)
}

func isBoolLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

func parseBoolLiteral(s string) bool {
	return strings.EqualFold(s, "true")
}

func isTimeLiteral(s string) bool {
	for _, layout := range timeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
