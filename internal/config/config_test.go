package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
input:
  path: orders.csv
  table: orders
validation:
  expected_types:
    order_id: integer
    customer_name: text
  constraints:
    order_id:
      unique: true
      not_null: true
    quantity:
      range: [0, 1000]
    status:
      allowed_values: [open, closed]
  strict: true
null_strategy:
  quantity: median
  status: mode
output:
  engine: sqlite
  dsn: orders.db
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Input.Path != "orders.csv" || cfg.Input.Table != "orders" {
		t.Errorf("input = %+v", cfg.Input)
	}
	if cfg.Validation.ExpectedTypes["order_id"] != "integer" {
		t.Errorf("expected types = %v", cfg.Validation.ExpectedTypes)
	}
	con := cfg.Validation.Constraints["order_id"]
	if !con.Unique || !con.NotNull {
		t.Errorf("order_id constraint = %+v", con)
	}
	if r := cfg.Validation.Constraints["quantity"].Range; len(r) != 2 || r[0] != 0 || r[1] != 1000 {
		t.Errorf("quantity range = %v", r)
	}
	if av := cfg.Validation.Constraints["status"].AllowedValues; len(av) != 2 {
		t.Errorf("status allowed values = %v", av)
	}
	if !cfg.Validation.Strict {
		t.Error("strict not parsed")
	}
	if cfg.NullStrategy["quantity"] != "median" {
		t.Errorf("null strategy = %v", cfg.NullStrategy)
	}
	if cfg.Output.Engine != "sqlite" || cfg.Output.DSN != "orders.db" {
		t.Errorf("output = %+v", cfg.Output)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "input:\n  path: data.csv\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Input.Table != "data" {
		t.Errorf("default table = %q", cfg.Input.Table)
	}
	if cfg.Output.Engine != "csv" || cfg.Output.Dir != "out" {
		t.Errorf("default output = %+v", cfg.Output)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("default log = %+v", cfg.Log)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing input path",
			body: "output:\n  engine: csv\n",
			want: "input.path",
		},
		{
			name: "unknown engine",
			body: "input:\n  path: d.csv\noutput:\n  engine: oracle\n",
			want: "unsupported output engine",
		},
		{
			name: "database engine without dsn",
			body: "input:\n  path: d.csv\noutput:\n  engine: postgres\n",
			want: "output.dsn is required",
		},
		{
			name: "malformed range",
			body: "input:\n  path: d.csv\nvalidation:\n  constraints:\n    q:\n      range: [1]\n",
			want: "range needs [min, max]",
		},
		{
			name: "invalid yaml",
			body: "input: [unclosed",
			want: "parsing config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
