package main

import (
	"reflect"
	"testing"
)

func TestParseNullStrategies(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "single pair",
			input: "qty=median",
			want:  map[string]string{"qty": "median"},
		},
		{
			name:  "multiple pairs with spaces",
			input: "qty=median, city=mode",
			want:  map[string]string{"qty": "median", "city": "mode"},
		},
		{
			name:  "literal replacement value",
			input: "score=0",
			want:  map[string]string{"score": "0"},
		},
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:    "missing separator",
			input:   "qty",
			wantErr: true,
		},
		{
			name:    "empty column",
			input:   "=median",
			wantErr: true,
		},
		{
			name:    "empty strategy",
			input:   "qty=",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNullStrategies(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseNullStrategies(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseNullStrategies(%q): %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseNullStrategies(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
