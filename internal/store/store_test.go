package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"daily", "daily-chain", "a.b_c", "01"} {
		assert.NoError(t, ValidateName(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "with space"} {
		err := ValidateName(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.Is(err, ErrInvalidName))
	}
}

func TestMarshalUnmarshalKeepsScalarTypes(t *testing.T) {
	doc := Document{
		"script_list": []any{
			map[string]any{"script_path": "/a/b.exe", "run_timeout_seconds": 120, "notify_done": false},
		},
		"extra": "kept",
	}
	b, err := Marshal(doc)
	require.NoError(t, err)

	got, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, "kept", got["extra"])
	list, ok := got["script_list"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	rec, ok := list[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 120, rec["run_timeout_seconds"])
	assert.Equal(t, false, rec["notify_done"])
}

func TestUnmarshalEmpty(t *testing.T) {
	got, err := Unmarshal(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = Unmarshal([]byte("script_list: [unclosed"))
	assert.Error(t, err)
}
