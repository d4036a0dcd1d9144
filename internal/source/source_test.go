//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	items := []string{"a", "b", "c"}
	l := NewList("letters", items)
	items[0] = "changed"

	assert.Equal(t, "letters", l.Name())
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, "a", l.Item(0))
	assert.Equal(t, "c", l.Item(2))
	assert.Empty(t, l.Item(-1))
	assert.Empty(t, l.Item(3))
	assert.Equal(t, []string{"a", "b", "c"}, l.Items())
}

func TestSequence(t *testing.T) {
	tests := []struct {
		name   string
		seq    Sequence
		index  int
		want   string
		length int
	}{
		{name: "default format", seq: Sequence{Count: -1}, index: 4, want: "item 4", length: -1},
		{name: "negative index unbounded", seq: Sequence{Count: -1}, index: -12, want: "item -12", length: -1},
		{name: "custom format", seq: Sequence{Format: "#%03d", Count: 100}, index: 7, want: "#007", length: 100},
		{name: "past the end", seq: Sequence{Count: 3}, index: 3, want: "", length: 3},
		{name: "before the start", seq: Sequence{Count: 3}, index: -1, want: "", length: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.seq.Item(tt.index))
			assert.Equal(t, tt.length, tt.seq.Len())
		})
	}
	assert.Equal(t, "seq:item %d:-1", Sequence{Count: -1}.Name())
}

func TestOpen_PicksLoaderByKind(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(txt, []byte("one\ntwo\n"), 0o600))
	l, err := Open(context.Background(), txt)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, l.Items())

	yml := filepath.Join(dir, "list.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("- x\n- y\n- z\n"), 0o600))
	l, err = Open(context.Background(), yml)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, l.Items())

	sub := filepath.Join(dir, "tree")
	require.NoError(t, os.MkdirAll(filepath.Join(sub, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested", "b.go"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.md"), nil, 0o600))
	l, err = Open(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "nested/b.go"}, l.Items())
	assert.Equal(t, sub, l.Name())

	_, err = Open(context.Background(), filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
}

func TestName_IsAbsolute(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "items.txt"), Name("items.txt"))
}
