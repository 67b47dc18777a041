package attachment

import (
	"path"
	"strings"
)

// Attachment is one media object from the host library. FilePath is
// relative to the uploads root; the file may no longer exist locally
// once it has been offloaded and deleted.
type Attachment struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	FilePath  string `json:"filePath"`
	MimeType  string `json:"mimeType"`
	CreatedAt int64  `json:"createdAt"`
}

// Size is one derivative variant of an image attachment. File is a
// filename, always a sibling of the primary file.
type Size struct {
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (a *Attachment) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}

// DisplayTitle falls back to the filename when no title was set.
func (a *Attachment) DisplayTitle() string {
	if a.Title != "" {
		return a.Title
	}
	return path.Base(a.FilePath)
}

// SizePath resolves a derivative filename against the directory of the
// primary file, returning a path relative to the uploads root.
func (a *Attachment) SizePath(s Size) string {
	return path.Join(path.Dir(a.FilePath), s.File)
}
