package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "plain key", key: "receipts/m1/e1.jpg", want: "receipts/m1/e1.jpg"},
		{name: "backslashes normalized", key: `receipts\m1\e1.jpg`, want: "receipts/m1/e1.jpg"},
		{name: "leading dot slash stripped", key: "./logos/m1.png", want: "logos/m1.png"},
		{name: "leading slash stripped", key: "/logos/m1.png", want: "logos/m1.png"},
		{name: "inner dotdot collapsed", key: "receipts/x/../m1/e1.jpg", want: "receipts/m1/e1.jpg"},
		{name: "escape via dotdot", key: "../etc/passwd", wantErr: true},
		{name: "escape after collapse", key: "a/../../etc/passwd", wantErr: true},
		{name: "empty", key: "", wantErr: true},
		{name: "whitespace only", key: "   ", wantErr: true},
		{name: "dot only", key: ".", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := sanitizeKey(tc.key)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFileStoreWrite(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://files.test/static/")
	require.NoError(t, err)

	url, err := store.Write(context.Background(), "receipts/m1/e1.jpg", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, "http://files.test/static/receipts/m1/e1.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "receipts", "m1", "e1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestFileStoreWrite_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://files.test/static")
	require.NoError(t, err)

	_, err = store.Write(context.Background(), "../outside.txt", []byte("x"))
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "outside.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestNewFileStore_RequiresBasePath(t *testing.T) {
	_, err := NewFileStore("", "http://files.test/static")
	assert.Error(t, err)
}
