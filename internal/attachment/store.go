package attachment

import "errors"

// Tag keys making up the per-attachment sync record. A size-specific
// entry appends "_<size>" to the URL/ID base key.
const (
	TagRemoteURL    = "remote_url"
	TagRemoteID     = "remote_id"
	TagLocalDeleted = "local_deleted"

	sizesTag = "sizes"
)

var ErrNotFound = errors.New("attachment not found")

// SizeURLTag returns the tag key holding the remote URL for a size.
func SizeURLTag(size string) string {
	return TagRemoteURL + "_" + size
}

// SizeIDTag returns the tag key holding the remote ID for a size.
func SizeIDTag(size string) string {
	return TagRemoteID + "_" + size
}

// Store is the attachment persistence contract the sync engine works
// against: attachment rows plus an arbitrary key-value tag space per
// attachment. ListUnsynced returns attachments whose remote_url tag is
// absent or empty; ListSynced the complement. Both order by ascending
// ID so offset paging is deterministic and resumable.
type Store interface {
	Get(id int64) (*Attachment, error)
	Create(a *Attachment) error
	Delete(id int64) error

	GetTag(id int64, key string) (string, error)
	SetTag(id int64, key, value string) error
	Tags(id int64) (map[string]string, error)
	DeleteTags(id int64) error

	GetSizes(id int64) (map[string]Size, error)
	SetSizes(id int64, sizes map[string]Size) error

	ListUnsynced(offset, limit int) ([]*Attachment, error)
	ListSynced(offset, limit int) ([]*Attachment, error)
	CountAll() (int, error)
	CountSynced() (int, error)
}
