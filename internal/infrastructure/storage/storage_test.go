package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStorePut(t *testing.T) {
	root := t.TempDir()
	s, err := NewFSStore(root)
	require.NoError(t, err)

	obj, err := s.Put(context.Background(), "ganancias/2024/03/a.xlsx", "application/octet-stream", []byte("hola"))
	require.NoError(t, err)
	assert.Equal(t, "fs", obj.Driver)
	assert.Equal(t, int64(4), obj.Size)

	data, err := os.ReadFile(filepath.Join(root, "ganancias", "2024", "03", "a.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "hola", string(data))

	_, err = s.Put(context.Background(), "../escape.xlsx", "", []byte("x"))
	assert.Error(t, err)
	_, err = s.Put(context.Background(), "/abs.xlsx", "", []byte("x"))
	assert.Error(t, err)
}

func TestExportKey(t *testing.T) {
	at := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)

	assert.Equal(t, "ganancias/2024/03/ganancias-20240305-140700.xlsx", ExportKey("ganancias", at, "xlsx"))
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}
