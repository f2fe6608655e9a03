package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned by Load when no document exists for a chain name.
	ErrNotFound = errors.New("chain document not found")
	// ErrInvalidName is returned for chain names that cannot be used as keys.
	ErrInvalidName = errors.New("invalid chain name")
)

// Document is the raw mapping persisted for one chain.
// The chain core owns the "script_list" key; other keys pass through untouched.
type Document map[string]any

// Store is the persistence primitive for chain documents.
// A document is identified by the chain name and is always replaced as a whole.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Load(ctx context.Context, name string) (Document, error)
	Save(ctx context.Context, name string, doc Document) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateName rejects names that would escape a directory or a table key.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Marshal encodes a document as YAML text. SQL backends keep this text in a
// single column so every backend shares one document shape.
func Marshal(doc Document) ([]byte, error) {
	if doc == nil {
		doc = Document{}
	}
	return yaml.Marshal(map[string]any(doc))
}

// Unmarshal decodes YAML text produced by Marshal (or written by hand).
// An empty input yields an empty document.
func Unmarshal(b []byte) (Document, error) {
	var m map[string]any
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return Document(m), nil
}
