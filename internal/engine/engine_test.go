package engine_test

import (
	"path/filepath"
	"strings"
	"testing"

	"go.rowdb/internal/config"
	"go.rowdb/internal/engine"
	"go.rowdb/internal/table"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestResolvePath(t *testing.T) {
	cfg := testConfig(t)

	named, err := engine.ResolvePath("orders", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(cfg.DataDir, "orders", "orders.db"); named != want {
		t.Fatalf("ResolvePath(orders) = %s, want %s", named, want)
	}

	literal := filepath.Join(t.TempDir(), "direct.db")
	got, err := engine.ResolvePath(literal, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if got != literal {
		t.Fatalf("ResolvePath(%s) = %s", literal, got)
	}
}

func TestOpenInsertReopen(t *testing.T) {
	cfg := testConfig(t)

	db, err := engine.Open("orders", cfg)
	if err != nil {
		t.Fatal(err)
	}

	if err := db.Insert(table.Row{ID: 1, Username: "a", Email: "a@x"}); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = engine.Open("orders", cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if !strings.HasSuffix(db.Path(), filepath.Join("orders", "orders.db")) {
		t.Fatalf("unexpected db path %s", db.Path())
	}

	rows, err := db.SelectAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Username != "a" {
		t.Fatalf("rows after reopen = %v", rows)
	}
}
