package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/loykin/scriptchain/internal/store"
)

// SubDir is the directory below the base dir that holds chain documents.
const SubDir = "script_chain"

const ext = ".yml"

// Dir implements store.Store with one YAML file per chain:
// <base>/script_chain/<name>.yml

type Dir struct {
	root string
}

// New returns a store rooted at base. Nothing is touched on disk until
// EnsureSchema or Save is called.
func New(base string) (*Dir, error) {
	b := strings.TrimSpace(base)
	if b == "" {
		return nil, errors.New("empty yaml store directory")
	}
	return &Dir{root: filepath.Join(filepath.Clean(b), SubDir)}, nil
}

// Root returns the directory holding the chain files.
func (d *Dir) Root() string { return d.root }

func (d *Dir) path(name string) string { return filepath.Join(d.root, name+ext) }

func (d *Dir) EnsureSchema(_ context.Context) error {
	return os.MkdirAll(d.root, 0o755)
}

func (d *Dir) Load(_ context.Context, name string) (store.Document, error) {
	if err := store.ValidateName(name); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(d.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, name)
		}
		return nil, err
	}
	doc, err := store.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", d.path(name), err)
	}
	return doc, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target so a crash never leaves a half-written document.
func (d *Dir) Save(_ context.Context, name string, doc store.Document) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}
	b, err := store.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.root, name+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, d.path(name)); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func (d *Dir) Delete(_ context.Context, name string) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(d.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (d *Dir) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(out)
	return out, nil
}

func (d *Dir) Close() error { return nil }
