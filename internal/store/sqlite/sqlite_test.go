package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/loykin/scriptchain/internal/store"
)

func TestSQLiteDocumentAPI(t *testing.T) {
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	if _, err := db.Load(ctx, "daily"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	doc := store.Document{"script_list": []any{
		map[string]any{"script_path": "/a.exe", "run_timeout_seconds": 30},
	}}
	if err := db.Save(ctx, "daily", doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := db.Load(ctx, "daily")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rec := got["script_list"].([]any)[0].(map[string]any)
	if rec["script_path"] != "/a.exe" || rec["run_timeout_seconds"] != 30 {
		t.Fatalf("unexpected record: %#v", rec)
	}

	// overwrite replaces the whole document
	if err := db.Save(ctx, "daily", store.Document{"script_list": []any{}}); err != nil {
		t.Fatalf("save2: %v", err)
	}
	got, err = db.Load(ctx, "daily")
	if err != nil {
		t.Fatalf("load2: %v", err)
	}
	if l := got["script_list"].([]any); len(l) != 0 {
		t.Fatalf("expected empty list after overwrite, got %v", l)
	}

	if err := db.Save(ctx, "a-first", store.Document{}); err != nil {
		t.Fatalf("save a-first: %v", err)
	}
	names, err := db.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "a-first" || names[1] != "daily" {
		t.Fatalf("unexpected names: %v", names)
	}

	if err := db.Delete(ctx, "daily"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := db.Load(ctx, "daily"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestSQLiteFileDB(t *testing.T) {
	p := filepath.Join(t.TempDir(), "chains.db")
	db, err := New(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
	if err := db.Save(ctx, "c", store.Document{"k": "v"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = db.Close()

	db2, err := New(p)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = db2.Close() })
	got, err := db2.Load(ctx, "c")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["k"] != "v" {
		t.Fatalf("unexpected document: %#v", got)
	}
}

func TestSQLiteEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
