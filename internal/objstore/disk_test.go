package objstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kenzyo3030/cafe/internal/objstore"

	"github.com/stretchr/testify/assert"
)

func TestGenerateName(t *testing.T) {
	name := objstore.GenerateName("my photo.JPG")
	assert.True(t, strings.HasSuffix(name, ".JPG"), name)
	assert.NotContains(t, name, " ")

	// No extension falls back to .bin
	name = objstore.GenerateName("photo")
	assert.True(t, strings.HasSuffix(name, ".bin"), name)
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "1700000000000.jpg", objstore.NameFromURL("http://localhost:8080/uploads/1700000000000.jpg"))
	assert.Equal(t, "1700000000000.jpg", objstore.NameFromURL("https://cdn.example.com/bucket/1700000000000.jpg?token=abc"))
	assert.Equal(t, "", objstore.NameFromURL(""))
}

func TestDiskStore_PutAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := objstore.NewDiskStore(dir, "http://localhost:8080/")
	assert.NoError(t, err)

	url, err := store.Put("1700000000000.jpg", strings.NewReader("image-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/1700000000000.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "1700000000000.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))

	assert.NoError(t, store.Remove("1700000000000.jpg"))
	_, err = os.Stat(filepath.Join(dir, "1700000000000.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStore_RemoveMissingIsNotAnError(t *testing.T) {
	store, err := objstore.NewDiskStore(t.TempDir(), "http://localhost:8080")
	assert.NoError(t, err)

	assert.NoError(t, store.Remove("never-existed.jpg"))
	assert.NoError(t, store.Remove(""))
}

func TestDiskStore_PutStripsPathComponents(t *testing.T) {
	dir := t.TempDir()
	store, err := objstore.NewDiskStore(dir, "http://localhost:8080")
	assert.NoError(t, err)

	// A name carrying path separators must not escape the directory
	url, err := store.Put("../escape.jpg", strings.NewReader("x"))
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/escape.jpg", url)
	_, err = os.Stat(filepath.Join(dir, "escape.jpg"))
	assert.NoError(t, err)
}
