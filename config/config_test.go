package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.Rows != 10 || cfg.Columns != 10 || cfg.Mines != 10 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.SessionTTL != 30*time.Minute || cfg.UndoDepth != 16 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MINESWEEPER_ADDR", "127.0.0.1:9000")
	t.Setenv("MINESWEEPER_ROWS", "16")
	t.Setenv("MINESWEEPER_COLUMNS", "30")
	t.Setenv("MINESWEEPER_MINES", "99")
	t.Setenv("MINESWEEPER_SESSION_TTL", "5m")
	t.Setenv("MINESWEEPER_WEIGHTS_PATH", "/tmp/weights.json")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.Rows != 16 || cfg.Columns != 30 || cfg.Mines != 99 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.SessionTTL != 5*time.Minute || cfg.WeightsPath != "/tmp/weights.json" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad int":       {"MINESWEEPER_ROWS": "many"},
		"too many mine": {"MINESWEEPER_ROWS": "2", "MINESWEEPER_COLUMNS": "2", "MINESWEEPER_MINES": "5"},
		"over max":      {"MINESWEEPER_ROWS": "60"},
		"no undo":       {"MINESWEEPER_UNDO_DEPTH": "0"},
		"zero ttl":      {"MINESWEEPER_SESSION_TTL": "0s"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	err := Config{Rows: 0, Columns: 0, MaxRows: 10, MaxColumns: 10, UndoDepth: 0}.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, part := range []string{"dimensions", "undo depth", "ttl"} {
		if !strings.Contains(err.Error(), part) {
			t.Fatalf("error %q does not mention %q", err, part)
		}
	}
}
