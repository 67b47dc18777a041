package syncer

import (
	"testing"

	"github.com/strongclose/media-offload/internal/attachment"
	"github.com/stretchr/testify/assert"
)

func TestLoadRecord_ShouldParseTagKeys(t *testing.T) {
	// given
	store := attachment.NewMemoryStore()
	store.SetTag(1, attachment.TagRemoteURL, "https://cdn.example.com/d/uploads/p.jpg")
	store.SetTag(1, attachment.TagRemoteID, "media-001")
	store.SetTag(1, attachment.SizeURLTag("thumbnail"), "https://cdn.example.com/d/uploads/p-150x150.jpg")
	store.SetTag(1, attachment.SizeIDTag("thumbnail"), "media-002")
	store.SetTag(1, attachment.TagLocalDeleted, "1")

	// when
	rec, err := LoadRecord(store, 1)

	// then
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/d/uploads/p.jpg", rec.PrimaryURL)
	assert.Equal(t, "media-001", rec.PrimaryID)
	assert.Equal(t, "https://cdn.example.com/d/uploads/p-150x150.jpg", rec.SizeURLs["thumbnail"])
	assert.Equal(t, "media-002", rec.SizeIDs["thumbnail"])
	assert.True(t, rec.LocalDeleted)
}

func TestLoadRecord_ShouldIgnoreEmptyValues(t *testing.T) {
	// given
	store := attachment.NewMemoryStore()
	store.SetTag(1, attachment.TagRemoteURL, "")
	store.SetTag(1, attachment.SizeURLTag("medium"), "")

	// when
	rec, err := LoadRecord(store, 1)

	// then
	assert.NoError(t, err)
	assert.Empty(t, rec.PrimaryURL)
	assert.False(t, rec.HasSize("medium"))
}

func TestSaveUpload_ShouldWritePrimaryUnderBaseKeys(t *testing.T) {
	// given
	store := attachment.NewMemoryStore()

	// when
	err := SaveUpload(store, 1, PrimaryName, "https://cdn.example.com/d/p.jpg", "media-001")

	// then
	assert.NoError(t, err)
	url, _ := store.GetTag(1, attachment.TagRemoteURL)
	id, _ := store.GetTag(1, attachment.TagRemoteID)
	assert.Equal(t, "https://cdn.example.com/d/p.jpg", url)
	assert.Equal(t, "media-001", id)
}

func TestSaveUpload_ShouldWriteSizeUnderSuffixedKeys(t *testing.T) {
	// given
	store := attachment.NewMemoryStore()

	// when
	err := SaveUpload(store, 1, "medium", "https://cdn.example.com/d/p-300x225.jpg", "media-002")

	// then
	assert.NoError(t, err)
	url, _ := store.GetTag(1, attachment.SizeURLTag("medium"))
	id, _ := store.GetTag(1, attachment.SizeIDTag("medium"))
	assert.Equal(t, "https://cdn.example.com/d/p-300x225.jpg", url)
	assert.Equal(t, "media-002", id)

	base, _ := store.GetTag(1, attachment.TagRemoteURL)
	assert.Empty(t, base)
}

func TestRecord_RemoteIDs_ShouldListPrimaryFirst(t *testing.T) {
	// given
	rec := &Record{
		PrimaryID: "media-001",
		SizeIDs:   map[string]string{"thumbnail": "media-002", "medium": "media-003"},
	}

	// when
	ids := rec.RemoteIDs()

	// then
	assert.Len(t, ids, 3)
	assert.Equal(t, "media-001", ids[0])
	assert.Contains(t, ids, "media-002")
	assert.Contains(t, ids, "media-003")
}

func TestMarkLocalDeleted_ShouldSetFlagTag(t *testing.T) {
	// given
	store := attachment.NewMemoryStore()

	// when
	err := MarkLocalDeleted(store, 1)

	// then
	assert.NoError(t, err)
	value, _ := store.GetTag(1, attachment.TagLocalDeleted)
	assert.Equal(t, "1", value)
}
