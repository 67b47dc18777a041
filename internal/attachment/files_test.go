package attachment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFiles_Abs_ShouldResolveAgainstRoot(t *testing.T) {
	// given
	files := NewFiles("/var/uploads")

	// then
	assert.Equal(t, filepath.FromSlash("/var/uploads/2026/01/a.jpg"), files.Abs("2026/01/a.jpg"))
	assert.Equal(t, filepath.FromSlash("/var/uploads/2026/01/a.jpg"), files.Abs("/2026/01/a.jpg"))
}

func TestFiles_Exists_ShouldDistinguishFilesFromDirectories(t *testing.T) {
	// given
	root := t.TempDir()
	files := NewFiles(root)
	os.MkdirAll(filepath.Join(root, "2026/01"), 0o755)
	os.WriteFile(filepath.Join(root, "2026/01/a.jpg"), []byte("x"), 0o644)

	// then
	assert.True(t, files.Exists("2026/01/a.jpg"))
	assert.False(t, files.Exists("2026/01/missing.jpg"))
	assert.False(t, files.Exists("2026/01"))
}

func TestFiles_Delete_ShouldRemoveFile(t *testing.T) {
	// given
	root := t.TempDir()
	files := NewFiles(root)
	os.WriteFile(filepath.Join(root, "a.jpg"), []byte("x"), 0o644)

	// when
	err := files.Delete("a.jpg")

	// then
	assert.NoError(t, err)
	assert.False(t, files.Exists("a.jpg"))
}
