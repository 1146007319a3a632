package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"notesapp/internal/database"
	"notesapp/internal/database/models"
)

// NotesCollectionName is the single collection notes live in.
const NotesCollectionName = "notes"

// ErrNoDocuments is returned when no document matches the given id.
var ErrNoDocuments = errors.New("no documents in result")

type NoteRepository interface {
	Find(ctx context.Context) ([]models.NoteDocument, error)
	FindOne(ctx context.Context, id uuid.UUID) (*models.NoteDocument, error)
	InsertOne(ctx context.Context, doc models.NoteDocument) (uuid.UUID, error)
	InsertMany(ctx context.Context, docs []models.NoteDocument) error
	FindOneAndUpdate(ctx context.Context, id uuid.UUID, update models.NoteUpdate) (*models.NoteDocument, error)
	DeleteOne(ctx context.Context, id uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
	Search(ctx context.Context, query string) ([]models.NoteDocument, error)
}

type noteRepository struct {
	db database.DB
}

func NewNoteRepository(db database.DB) NoteRepository {
	return &noteRepository{db: db}
}

// NotesCollection acquires the shared connection and returns a handle on the
// notes collection.
func NotesCollection(ctx context.Context, svc database.Service) (NoteRepository, error) {
	db, err := svc.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return NewNoteRepository(db), nil
}

const noteColumns = `id, title, content, created_at, updated_at`

func scanNote(row pgx.Row) (*models.NoteDocument, error) {
	var doc models.NoteDocument
	if err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

func collectNotes(rows pgx.Rows) ([]models.NoteDocument, error) {
	defer rows.Close()
	notes := []models.NoteDocument{}
	for rows.Next() {
		doc, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning note: %w", err)
		}
		notes = append(notes, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}

// Find returns every note, most recently updated first. Notes with equal
// updated_at keep insertion order.
func (r *noteRepository) Find(ctx context.Context) ([]models.NoteDocument, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY updated_at DESC, seq ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying notes: %w", err)
	}
	return collectNotes(rows)
}

func (r *noteRepository) FindOne(ctx context.Context, id uuid.UUID) (*models.NoteDocument, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`
	doc, err := scanNote(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("error getting note: %w", err)
	}
	return doc, nil
}

// InsertOne stores doc and returns the id the store assigned to it.
func (r *noteRepository) InsertOne(ctx context.Context, doc models.NoteDocument) (uuid.UUID, error) {
	query := `
		INSERT INTO notes (title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	var id uuid.UUID
	err := r.db.QueryRow(ctx, query, doc.Title, doc.Content, doc.CreatedAt, doc.UpdatedAt).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("error creating note: %w", err)
	}
	return id, nil
}

func (r *noteRepository) InsertMany(ctx context.Context, docs []models.NoteDocument) error {
	if len(docs) == 0 {
		return nil
	}
	query := `INSERT INTO notes (title, content, created_at, updated_at) VALUES ($1, $2, $3, $4)`
	batch := &pgx.Batch{}
	for _, doc := range docs {
		batch.Queue(query, doc.Title, doc.Content, doc.CreatedAt, doc.UpdatedAt)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("error inserting notes: %w", err)
	}
	return nil
}

// FindOneAndUpdate applies update in a single statement and returns the
// document as it is after the update.
func (r *noteRepository) FindOneAndUpdate(ctx context.Context, id uuid.UUID, update models.NoteUpdate) (*models.NoteDocument, error) {
	query := `
		UPDATE notes
		SET title = COALESCE($2, title),
			content = COALESCE($3, content),
			updated_at = $4
		WHERE id = $1
		RETURNING ` + noteColumns
	doc, err := scanNote(r.db.QueryRow(ctx, query, id, update.Title, update.Content, update.UpdatedAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoDocuments
	}
	if err != nil {
		return nil, fmt.Errorf("error updating note: %w", err)
	}
	return doc, nil
}

// DeleteOne removes the note with the given id and reports how many
// documents were removed.
func (r *noteRepository) DeleteOne(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("error deleting note: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *noteRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting notes: %w", err)
	}
	return n, nil
}
