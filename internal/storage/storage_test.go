package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r Reader, key string) string {
	t.Helper()
	rc, err := r.Get(context.Background(), key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"shap_values6.json", "shap_values6.json", false},
		{"models/./X_filled.csv", "models/X_filled.csv", false},
		{`models\ytest10.csv`, "models/ytest10.csv", false},
		{"a/../b.csv", "b.csv", false},
		{"", "", true},
		{"   ", "", true},
		{"/etc/passwd", "", true},
		{"../secret", "", true},
		{"a/../../secret", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "X_filled.csv", JoinKey("", "X_filled.csv"))
	assert.Equal(t, "saved/X_filled.csv", JoinKey("saved", "X_filled.csv"))
	assert.Equal(t, "saved/v2/X_filled.csv", JoinKey("/saved/v2/", "X_filled.csv"))
}

func TestFSStore(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "h6"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "h6", "ytest.csv"), []byte("School Name,y\n"), 0o644))

	s, err := NewFS(root)
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, s.Driver())

	assert.Equal(t, "School Name,y\n", readAll(t, s, "h6/ytest.csv"))

	_, err = s.Get(context.Background(), "h6/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(context.Background(), "../outside.csv")
	assert.ErrorIs(t, err, ErrInvalidKey)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Get(ctx, "h6/ytest.csv")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFS_Errors(t *testing.T) {
	_, err := NewFS("")
	assert.Error(t, err)

	_, err = NewFS(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewFS(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	assert.Equal(t, DriverMemory, s.Driver())

	data := []byte("0.5,0.25\n")
	require.NoError(t, s.Put("a/ytrain.csv", data))
	data[0] = 'X' // Put copies

	assert.Equal(t, "0.5,0.25\n", readAll(t, s, "a/ytrain.csv"))
	assert.Equal(t, "0.5,0.25\n", readAll(t, s, "./a/ytrain.csv"))
	assert.Equal(t, 2, s.Gets("a/ytrain.csv"))
	assert.Equal(t, []string{"a/ytrain.csv"}, s.Keys())

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Put("", nil), ErrInvalidKey)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	r, err := Open(ctx, Config{Driver: DriverMemory})
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, r.Driver())

	r, err = Open(ctx, Config{Root: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, DriverFilesystem, r.Driver())

	r, err = Open(ctx, Config{Driver: DriverS3, S3: S3Config{Bucket: "b", AccessKeyID: "AKIA", SecretAccessKey: "SECRET"}})
	require.NoError(t, err)
	assert.Equal(t, DriverS3, r.Driver())

	_, err = Open(ctx, Config{Driver: DriverS3})
	assert.ErrorContains(t, err, "bucket required")

	_, err = Open(ctx, Config{Driver: "gcs"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
