package attachment

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	// A file-backed database: in-memory SQLite is per-connection, which
	// breaks once database/sql opens a second one.
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE attachments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT '',
		file_path TEXT NOT NULL,
		mime_type TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE attachment_tags (
		attachment_id INTEGER NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (attachment_id, key)
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	return db
}

func createTestAttachment(t *testing.T, repo *SQLRepository, id int64, path string) *Attachment {
	t.Helper()
	a := &Attachment{ID: id, Title: "Test", FilePath: path, MimeType: "image/jpeg", CreatedAt: 1700000000}
	if err := repo.Create(a); err != nil {
		t.Fatalf("create attachment: %v", err)
	}
	return a
}

func TestSQLRepository_CreateAndGet(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))
	createTestAttachment(t, repo, 1, "2026/01/a.jpg")

	// when
	got, err := repo.Get(1)

	// then
	assert.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "2026/01/a.jpg", got.FilePath)
	assert.Equal(t, "image/jpeg", got.MimeType)
}

func TestSQLRepository_Get_ShouldReturnNotFound(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))

	// when
	_, err := repo.Get(99)

	// then
	assert.Equal(t, ErrNotFound, err)
}

func TestSQLRepository_Delete_ShouldRemoveRowAndTags(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))
	createTestAttachment(t, repo, 1, "a.jpg")
	repo.SetTag(1, TagRemoteURL, "https://cdn.example.com/d/a.jpg")

	// when
	err := repo.Delete(1)

	// then
	assert.NoError(t, err)
	_, err = repo.Get(1)
	assert.Equal(t, ErrNotFound, err)
	tags, _ := repo.Tags(1)
	assert.Empty(t, tags)

	assert.Equal(t, ErrNotFound, repo.Delete(1))
}

func TestSQLRepository_SetTag_ShouldUpsert(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))
	createTestAttachment(t, repo, 1, "a.jpg")

	// when
	repo.SetTag(1, TagRemoteURL, "first")
	repo.SetTag(1, TagRemoteURL, "second")

	// then
	value, err := repo.GetTag(1, TagRemoteURL)
	assert.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestSQLRepository_GetTag_ShouldReturnEmptyForMissingKey(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))

	// when
	value, err := repo.GetTag(1, "never-set")

	// then
	assert.NoError(t, err)
	assert.Empty(t, value)
}

func TestSQLRepository_Sizes_ShouldRoundTrip(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))
	createTestAttachment(t, repo, 1, "a.jpg")
	sizes := map[string]Size{
		"thumbnail": {File: "a-150x150.jpg", Width: 150, Height: 150},
		"medium":    {File: "a-300x225.jpg", Width: 300, Height: 225},
	}

	// when
	err := repo.SetSizes(1, sizes)

	// then
	assert.NoError(t, err)
	got, err := repo.GetSizes(1)
	assert.NoError(t, err)
	assert.Equal(t, sizes, got)
}

func TestSQLRepository_GetSizes_ShouldReturnNilWhenUnset(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))

	// when
	sizes, err := repo.GetSizes(1)

	// then
	assert.NoError(t, err)
	assert.Nil(t, sizes)
}

func TestSQLRepository_ListUnsynced_ShouldTreatEmptyTagAsUnsynced(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))
	createTestAttachment(t, repo, 1, "a.jpg")
	createTestAttachment(t, repo, 2, "b.jpg")
	createTestAttachment(t, repo, 3, "c.jpg")
	repo.SetTag(2, TagRemoteURL, "https://cdn.example.com/d/b.jpg")
	repo.SetTag(3, TagRemoteURL, "")

	// when
	unsynced, err := repo.ListUnsynced(0, 10)

	// then
	assert.NoError(t, err)
	assert.Len(t, unsynced, 2)
	assert.Equal(t, int64(1), unsynced[0].ID)
	assert.Equal(t, int64(3), unsynced[1].ID)
}

func TestSQLRepository_ListSynced_ShouldPageByAscendingID(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))
	for id := int64(1); id <= 4; id++ {
		createTestAttachment(t, repo, id, "a.jpg")
		repo.SetTag(id, TagRemoteURL, "https://cdn.example.com/d/a.jpg")
	}

	// when
	firstPage, _ := repo.ListSynced(0, 2)
	secondPage, _ := repo.ListSynced(2, 2)

	// then
	assert.Len(t, firstPage, 2)
	assert.Equal(t, int64(1), firstPage[0].ID)
	assert.Equal(t, int64(2), firstPage[1].ID)
	assert.Len(t, secondPage, 2)
	assert.Equal(t, int64(3), secondPage[0].ID)
	assert.Equal(t, int64(4), secondPage[1].ID)
}

func TestSQLRepository_Counts(t *testing.T) {
	// given
	repo := NewSQLRepository(newTestDB(t))
	createTestAttachment(t, repo, 1, "a.jpg")
	createTestAttachment(t, repo, 2, "b.jpg")
	repo.SetTag(2, TagRemoteURL, "https://cdn.example.com/d/b.jpg")

	// when
	total, err1 := repo.CountAll()
	synced, err2 := repo.CountSynced()

	// then
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, synced)
}
