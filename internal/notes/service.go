// Package notes implements the note server functions: list, create, update,
// delete and search. Each call validates its input before touching the
// store, performs one store operation and returns client-facing notes.
package notes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"notesapp/internal/database"
	"notesapp/internal/database/dto"
	"notesapp/internal/database/models"
	"notesapp/internal/database/repositories"
	"notesapp/internal/metrics"
)

// CollectionFunc returns a handle on the notes collection.
type CollectionFunc func(ctx context.Context) (repositories.NoteRepository, error)

type Service struct {
	db         database.Service
	collection CollectionFunc
	now        func() time.Time
}

type Option func(*Service)

// WithClock replaces the time source used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithCollection replaces the collection accessor, bypassing db.
func WithCollection(fn CollectionFunc) Option {
	return func(s *Service) {
		s.collection = fn
	}
}

func New(db database.Service, opts ...Option) *Service {
	s := &Service{
		db:  db,
		now: time.Now,
	}
	s.collection = func(ctx context.Context) (repositories.NoteRepository, error) {
		return repositories.NotesCollection(ctx, s.db)
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Ack acknowledges a mutation that returns no body.
type Ack struct {
	Success bool `json:"success"`
}

type ConnectionStatus struct {
	Connected bool `json:"connected"`
}

// timestamp reads the clock once, at the store's microsecond precision.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Service) GetNotes(ctx context.Context) (notes []models.Note, err error) {
	defer observe("list", time.Now(), &err)

	coll, err := s.collection(ctx)
	if err != nil {
		return nil, s.fail("fetch notes", err)
	}
	docs, err := coll.Find(ctx)
	if err != nil {
		return nil, s.fail("fetch notes", err)
	}
	return models.ToNotes(docs), nil
}

func (s *Service) CreateNote(ctx context.Context, in dto.CreateNoteInput) (note models.Note, err error) {
	defer observe("create", time.Now(), &err)

	if err := dto.Validate(in); err != nil {
		return models.Note{}, err
	}

	coll, err := s.collection(ctx)
	if err != nil {
		return models.Note{}, s.fail("create note", err)
	}

	now := s.timestamp()
	id, err := coll.InsertOne(ctx, models.NoteDocument{
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return models.Note{}, s.fail("create note", err)
	}

	// Read back the stored form rather than echoing the input.
	created, err := coll.FindOne(ctx, id)
	if errors.Is(err, repositories.ErrNoDocuments) {
		err = errors.New("note created but could not be retrieved")
	}
	if err != nil {
		return models.Note{}, s.fail("create note", err)
	}
	return models.ToNote(*created), nil
}

func (s *Service) UpdateNote(ctx context.Context, in dto.UpdateNoteInput) (note models.Note, err error) {
	defer observe("update", time.Now(), &err)

	if err := dto.Validate(in); err != nil {
		return models.Note{}, err
	}
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return models.Note{}, ErrNotFound
	}

	coll, err := s.collection(ctx)
	if err != nil {
		return models.Note{}, s.fail("update note", err)
	}

	updated, err := coll.FindOneAndUpdate(ctx, id, models.NoteUpdate{
		Title:     in.Title,
		Content:   in.Content,
		UpdatedAt: s.timestamp(),
	})
	if errors.Is(err, repositories.ErrNoDocuments) {
		return models.Note{}, ErrNotFound
	}
	if err != nil {
		return models.Note{}, s.fail("update note", err)
	}
	return models.ToNote(*updated), nil
}

func (s *Service) DeleteNote(ctx context.Context, in dto.DeleteNoteInput) (ack Ack, err error) {
	defer observe("delete", time.Now(), &err)

	if err := dto.Validate(in); err != nil {
		return Ack{}, err
	}
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return Ack{}, ErrNotFound
	}

	coll, err := s.collection(ctx)
	if err != nil {
		return Ack{}, s.fail("delete note", err)
	}
	deleted, err := coll.DeleteOne(ctx, id)
	if err != nil {
		return Ack{}, s.fail("delete note", err)
	}
	if deleted == 0 {
		return Ack{}, ErrNotFound
	}
	return Ack{Success: true}, nil
}

// SearchNotes returns notes matching every word of the query. A blank query
// matches nothing.
func (s *Service) SearchNotes(ctx context.Context, in dto.SearchNotesInput) (result models.SearchResult, err error) {
	defer observe("search", time.Now(), &err)

	if err := dto.Validate(in); err != nil {
		return models.SearchResult{}, err
	}
	result = models.SearchResult{Query: in.Query, Notes: []models.Note{}}
	if strings.TrimSpace(in.Query) == "" {
		return result, nil
	}

	coll, err := s.collection(ctx)
	if err != nil {
		return models.SearchResult{}, s.fail("search notes", err)
	}
	docs, err := coll.Search(ctx, in.Query)
	if err != nil {
		return models.SearchResult{}, s.fail("search notes", err)
	}
	result.Notes = models.ToNotes(docs)
	return result, nil
}

// CheckConnection probes the store. It reports failures as Connected=false
// and never returns an error.
func (s *Service) CheckConnection(ctx context.Context) ConnectionStatus {
	if s.db == nil {
		return ConnectionStatus{}
	}
	return ConnectionStatus{Connected: s.db.Connected(ctx)}
}

// fail passes classified errors through and hides everything else behind an
// OperationError. The raw cause is only logged.
func (s *Service) fail(op string, err error) error {
	switch KindOf(err) {
	case KindValidation, KindNotFound, KindConfiguration, KindConnection:
		zap.S().Warnf("Error trying to %s: %v", op, err)
		return err
	}
	zap.S().Errorf("Error trying to %s: %v", op, err)
	return &OperationError{Op: op, Err: err}
}

func observe(op string, started time.Time, err *error) {
	outcome := "ok"
	if *err != nil {
		outcome = KindOf(*err).String()
	}
	metrics.ObserveOperation(op, outcome, started)
}
