package syncer

import (
	"strings"

	"github.com/strongclose/media-offload/internal/attachment"
)

// Record is the per-attachment sync state stored as tags: which files
// are remote, under which URLs and IDs. Entries are only ever added by
// the sync path; only PurgeRemote clears a record.
type Record struct {
	PrimaryURL   string
	PrimaryID    string
	SizeURLs     map[string]string
	SizeIDs      map[string]string
	LocalDeleted bool
}

func LoadRecord(store attachment.Store, id int64) (*Record, error) {
	tags, err := store.Tags(id)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		SizeURLs: make(map[string]string),
		SizeIDs:  make(map[string]string),
	}
	urlPrefix := attachment.TagRemoteURL + "_"
	idPrefix := attachment.TagRemoteID + "_"

	for key, value := range tags {
		if value == "" {
			continue
		}
		switch {
		case key == attachment.TagRemoteURL:
			rec.PrimaryURL = value
		case key == attachment.TagRemoteID:
			rec.PrimaryID = value
		case key == attachment.TagLocalDeleted:
			rec.LocalDeleted = value == "1" || value == "true"
		case strings.HasPrefix(key, urlPrefix):
			rec.SizeURLs[strings.TrimPrefix(key, urlPrefix)] = value
		case strings.HasPrefix(key, idPrefix):
			rec.SizeIDs[strings.TrimPrefix(key, idPrefix)] = value
		}
	}
	return rec, nil
}

func (r *Record) HasSize(size string) bool {
	return r.SizeURLs[size] != ""
}

// RemoteIDs returns every remote media ID the record holds, primary
// first.
func (r *Record) RemoteIDs() []string {
	var ids []string
	if r.PrimaryID != "" {
		ids = append(ids, r.PrimaryID)
	}
	for _, id := range r.SizeIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// SaveUpload persists the URL/ID pair for one confirmed upload. Written
// immediately after each success so a crash cannot lose confirmed
// uploads; never written on failure, keeping the record free of partial
// entries.
func SaveUpload(store attachment.Store, id int64, name, url, mediaID string) error {
	urlKey := attachment.TagRemoteURL
	idKey := attachment.TagRemoteID
	if name != PrimaryName {
		urlKey = attachment.SizeURLTag(name)
		idKey = attachment.SizeIDTag(name)
	}
	if err := store.SetTag(id, urlKey, url); err != nil {
		return err
	}
	return store.SetTag(id, idKey, mediaID)
}

func MarkLocalDeleted(store attachment.Store, id int64) error {
	return store.SetTag(id, attachment.TagLocalDeleted, "1")
}
