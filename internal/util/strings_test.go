package util

import (
	"reflect"
	"testing"
)

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{",", nil},
	}
	for _, tt := range tests {
		if got := SplitCSV(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitCSV(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"VoteTypes", "votetypes"},
		{"User-Id", "user_id"},
		{"customer id", "customer_id"},
		{"order.total", "order_total"},
		{"2021", "col_2021"},
		{"", "col_"},
		{"already_fine", "already_fine"},
	}
	for _, tt := range tests {
		if got := SanitizeIdentifier(tt.input); got != tt.want {
			t.Errorf("SanitizeIdentifier(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
