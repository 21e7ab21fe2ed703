package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	fs, err := NewLocal(LocalConfig{Endpoint: "http://localhost:8080/", Root: root})
	require.NoError(t, err)

	require.NoError(t, fs.PutStream(ctx, "a/b/users.csv", bytes.NewReader([]byte("a,b\n1,2"))))
	assert.True(t, fs.Exists(ctx, "a/b/users.csv"))
	assert.Equal(t, filepath.Join(root, "a", "b", "users.csv"), fs.Path("a/b/users.csv"))
	assert.Equal(t, "http://localhost:8080/a/b/users.csv", fs.Url("/a/b/users.csv"))

	content, err := fs.Get(ctx, "a/b/users.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2", string(content))

	size, err := fs.Size(ctx, "a/b/users.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)

	mime, err := fs.MimeType(ctx, "a/b/users.csv")
	require.NoError(t, err)
	assert.Contains(t, mime, "text/")

	require.NoError(t, fs.Put(ctx, "data.json", []byte(`[{"a":"1"}]`)))
	require.NoError(t, fs.Delete(ctx, "data.json", "a/b/users.csv"))
	assert.False(t, fs.Exists(ctx, "data.json"))
	assert.Error(t, fs.Delete(ctx, "a"))
}

func TestLocalTraversal(t *testing.T) {
	root := t.TempDir()
	fs, err := NewLocal(LocalConfig{Root: root})
	require.NoError(t, err)
	require.NoError(t, fs.Put(context.Background(), "../../escape.txt", []byte("x")))
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err)
}

func TestNewLocalEmptyRoot(t *testing.T) {
	_, err := NewLocal(LocalConfig{})
	assert.True(t, ErrStorage.Has(err))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/csv", contentType("x/users.csv", nil))
	assert.Equal(t, "application/vnd.ms-excel", contentType("users.XLS", nil))
	assert.Equal(t, "application/json", contentType("users.json", nil))
	assert.Equal(t, "application/xml", contentType("users.xml", nil))
	assert.Contains(t, contentType("users.html", []byte("<html><body></body></html>")), "text/html")
}

func TestS3Config(t *testing.T) {
	_, err := NewS3(S3Config{})
	assert.True(t, ErrStorage.Has(err))

	s, err := NewS3(S3Config{
		AccessKeyId:     "id",
		AccessKeySecret: "secret",
		Bucket:          "exports",
		Region:          "us-east-1",
		Url:             "https://cdn.example.com/",
		Endpoint:        "http://localhost:9000",
		PathStyle:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/2024/users.csv", s.Url("/2024/users.csv"))
}
