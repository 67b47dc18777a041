package attachment

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store used by tests.
type MemoryStore struct {
	mu          sync.Mutex
	attachments map[int64]*Attachment
	tags        map[int64]map[string]string
	sizes       map[int64]map[string]Size
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		attachments: make(map[int64]*Attachment),
		tags:        make(map[int64]map[string]string),
		sizes:       make(map[int64]map[string]Size),
	}
}

func (m *MemoryStore) Get(id int64) (*Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.attachments[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *MemoryStore) Create(a *Attachment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *a
	m.attachments[a.ID] = &copied
	return nil
}

func (m *MemoryStore) Delete(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.attachments[id]; !ok {
		return ErrNotFound
	}
	delete(m.attachments, id)
	delete(m.tags, id)
	delete(m.sizes, id)
	return nil
}

func (m *MemoryStore) GetTag(id int64, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tags[id][key], nil
}

func (m *MemoryStore) SetTag(id int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tags[id] == nil {
		m.tags[id] = make(map[string]string)
	}
	m.tags[id][key] = value
	return nil
}

func (m *MemoryStore) Tags(id int64) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tags := make(map[string]string, len(m.tags[id]))
	for k, v := range m.tags[id] {
		tags[k] = v
	}
	return tags, nil
}

func (m *MemoryStore) DeleteTags(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tags, id)
	return nil
}

func (m *MemoryStore) GetSizes(id int64) (map[string]Size, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sizes[id] == nil {
		return nil, nil
	}
	sizes := make(map[string]Size, len(m.sizes[id]))
	for k, v := range m.sizes[id] {
		sizes[k] = v
	}
	return sizes, nil
}

func (m *MemoryStore) SetSizes(id int64, sizes map[string]Size) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make(map[string]Size, len(sizes))
	for k, v := range sizes {
		copied[k] = v
	}
	m.sizes[id] = copied
	return nil
}

func (m *MemoryStore) ListUnsynced(offset, limit int) ([]*Attachment, error) {
	return m.list(offset, limit, false)
}

func (m *MemoryStore) ListSynced(offset, limit int) ([]*Attachment, error) {
	return m.list(offset, limit, true)
}

func (m *MemoryStore) list(offset, limit int, synced bool) ([]*Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.attachments))
	for id := range m.attachments {
		if (m.tags[id][TagRemoteURL] != "") == synced {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var list []*Attachment
	for i := offset; i < len(ids) && len(list) < limit; i++ {
		copied := *m.attachments[ids[i]]
		list = append(list, &copied)
	}
	return list, nil
}

func (m *MemoryStore) CountAll() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.attachments), nil
}

func (m *MemoryStore) CountSynced() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for id := range m.attachments {
		if m.tags[id][TagRemoteURL] != "" {
			count++
		}
	}
	return count, nil
}
