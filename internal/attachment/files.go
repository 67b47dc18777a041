package attachment

import (
	"os"
	"path/filepath"
	"strings"
)

// Files resolves attachment paths against the uploads root and performs
// the local file operations the sync engine needs.
type Files struct {
	root string
}

func NewFiles(root string) *Files {
	return &Files{root: root}
}

func (f *Files) Root() string {
	return f.root
}

// Abs turns an uploads-relative path into an absolute one.
func (f *Files) Abs(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(strings.TrimLeft(rel, "/")))
}

func (f *Files) Exists(rel string) bool {
	info, err := os.Stat(f.Abs(rel))
	return err == nil && !info.IsDir()
}

func (f *Files) Delete(rel string) error {
	return os.Remove(f.Abs(rel))
}

func (f *Files) Open(rel string) (*os.File, error) {
	return os.Open(f.Abs(rel))
}
