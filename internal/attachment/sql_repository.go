package attachment

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
)

type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Get(id int64) (*Attachment, error) {
	query := `SELECT id, title, file_path, mime_type, created_at
			  FROM attachments WHERE id = $1`

	a := &Attachment{}
	err := r.db.QueryRow(query, id).Scan(&a.ID, &a.Title, &a.FilePath, &a.MimeType, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *SQLRepository) Create(a *Attachment) error {
	query := `INSERT INTO attachments (id, title, file_path, mime_type, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, a.ID, a.Title, a.FilePath, a.MimeType, a.CreatedAt)
	return err
}

func (r *SQLRepository) Delete(id int64) error {
	if err := r.DeleteTags(id); err != nil {
		return err
	}
	result, err := r.db.Exec(`DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLRepository) GetTag(id int64, key string) (string, error) {
	query := `SELECT value FROM attachment_tags WHERE attachment_id = $1 AND key = $2`

	var value string
	err := r.db.QueryRow(query, id, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (r *SQLRepository) SetTag(id int64, key, value string) error {
	query := `INSERT INTO attachment_tags (attachment_id, key, value)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (attachment_id, key) DO UPDATE SET
			  value = EXCLUDED.value`

	_, err := r.db.Exec(query, id, key, value)
	return err
}

func (r *SQLRepository) Tags(id int64) (map[string]string, error) {
	query := `SELECT key, value FROM attachment_tags WHERE attachment_id = $1`

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		tags[key] = value
	}
	return tags, rows.Err()
}

func (r *SQLRepository) DeleteTags(id int64) error {
	_, err := r.db.Exec(`DELETE FROM attachment_tags WHERE attachment_id = $1`, id)
	return err
}

func (r *SQLRepository) GetSizes(id int64) (map[string]Size, error) {
	raw, err := r.GetTag(id, sizesTag)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var sizes map[string]Size
	if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
		return nil, fmt.Errorf("failed to decode sizes for attachment %d: %w", id, err)
	}
	return sizes, nil
}

func (r *SQLRepository) SetSizes(id int64, sizes map[string]Size) error {
	raw, err := json.Marshal(sizes)
	if err != nil {
		return fmt.Errorf("failed to encode sizes for attachment %d: %w", id, err)
	}
	return r.SetTag(id, sizesTag, string(raw))
}

func (r *SQLRepository) ListUnsynced(offset, limit int) ([]*Attachment, error) {
	query := `SELECT a.id, a.title, a.file_path, a.mime_type, a.created_at
			  FROM attachments a
			  LEFT JOIN attachment_tags t ON a.id = t.attachment_id AND t.key = $1
			  WHERE t.value IS NULL OR t.value = ''
			  ORDER BY a.id ASC
			  LIMIT $2 OFFSET $3`

	return r.queryAttachments(query, TagRemoteURL, limit, offset)
}

func (r *SQLRepository) ListSynced(offset, limit int) ([]*Attachment, error) {
	query := `SELECT a.id, a.title, a.file_path, a.mime_type, a.created_at
			  FROM attachments a
			  INNER JOIN attachment_tags t ON a.id = t.attachment_id AND t.key = $1
			  WHERE t.value != ''
			  ORDER BY a.id ASC
			  LIMIT $2 OFFSET $3`

	return r.queryAttachments(query, TagRemoteURL, limit, offset)
}

func (r *SQLRepository) queryAttachments(query string, args ...interface{}) ([]*Attachment, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Attachment
	for rows.Next() {
		a := &Attachment{}
		if err := rows.Scan(&a.ID, &a.Title, &a.FilePath, &a.MimeType, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *SQLRepository) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM attachments`).Scan(&count)
	return count, err
}

func (r *SQLRepository) CountSynced() (int, error) {
	query := `SELECT COUNT(DISTINCT a.id)
			  FROM attachments a
			  INNER JOIN attachment_tags t ON a.id = t.attachment_id AND t.key = $1
			  WHERE t.value != ''`

	var count int
	err := r.db.QueryRow(query, TagRemoteURL).Scan(&count)
	return count, err
}
