package notes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"notesapp/internal/database/models"
	"notesapp/internal/database/repositories"
)

type storedNote struct {
	doc models.NoteDocument
	seq int
}

// memoryCollection is an in-memory notes collection that counts every store
// operation it serves.
type memoryCollection struct {
	mu      sync.Mutex
	notes   map[uuid.UUID]*storedNote
	nextSeq int
	ops     int
	failAll error
	// dropInserts makes FindOne miss documents that were just inserted.
	dropInserts bool
}

func newMemoryCollection() *memoryCollection {
	return &memoryCollection{notes: map[uuid.UUID]*storedNote{}}
}

func (m *memoryCollection) accessor() CollectionFunc {
	return func(ctx context.Context) (repositories.NoteRepository, error) {
		return m, nil
	}
}

func (m *memoryCollection) opCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ops
}

func (m *memoryCollection) begin() error {
	m.ops++
	return m.failAll
}

func (m *memoryCollection) sorted() []models.NoteDocument {
	all := make([]*storedNote, 0, len(m.notes))
	for _, n := range m.notes {
		all = append(all, n)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].doc.UpdatedAt.Equal(all[j].doc.UpdatedAt) {
			return all[i].doc.UpdatedAt.After(all[j].doc.UpdatedAt)
		}
		return all[i].seq < all[j].seq
	})
	docs := make([]models.NoteDocument, 0, len(all))
	for _, n := range all {
		docs = append(docs, n.doc)
	}
	return docs
}

func (m *memoryCollection) Find(ctx context.Context) ([]models.NoteDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	return m.sorted(), nil
}

func (m *memoryCollection) FindOne(ctx context.Context, id uuid.UUID) (*models.NoteDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	n, ok := m.notes[id]
	if !ok || m.dropInserts {
		return nil, repositories.ErrNoDocuments
	}
	doc := n.doc
	return &doc, nil
}

func (m *memoryCollection) InsertOne(ctx context.Context, doc models.NoteDocument) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return uuid.Nil, err
	}
	doc.ID = uuid.New()
	m.nextSeq++
	m.notes[doc.ID] = &storedNote{doc: doc, seq: m.nextSeq}
	return doc.ID, nil
}

func (m *memoryCollection) InsertMany(ctx context.Context, docs []models.NoteDocument) error {
	for _, doc := range docs {
		if _, err := m.InsertOne(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryCollection) FindOneAndUpdate(ctx context.Context, id uuid.UUID, update models.NoteUpdate) (*models.NoteDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	n, ok := m.notes[id]
	if !ok {
		return nil, repositories.ErrNoDocuments
	}
	if update.Title != nil {
		n.doc.Title = *update.Title
	}
	if update.Content != nil {
		n.doc.Content = *update.Content
	}
	n.doc.UpdatedAt = update.UpdatedAt
	doc := n.doc
	return &doc, nil
}

func (m *memoryCollection) DeleteOne(ctx context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return 0, err
	}
	if _, ok := m.notes[id]; !ok {
		return 0, nil
	}
	delete(m.notes, id)
	return 1, nil
}

func (m *memoryCollection) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return 0, err
	}
	return int64(len(m.notes)), nil
}

func (m *memoryCollection) Search(ctx context.Context, query string) ([]models.NoteDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(); err != nil {
		return nil, err
	}
	var out []models.NoteDocument
	q := strings.ToLower(query)
	for _, doc := range m.sorted() {
		if strings.Contains(strings.ToLower(doc.Title+" "+doc.Content), q) {
			out = append(out, doc)
		}
	}
	return out, nil
}

// stepClock advances by step on every read.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}
