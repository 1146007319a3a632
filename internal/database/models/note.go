package models

import (
	"time"

	"github.com/google/uuid"
)

// NoteDocument is a note as stored in the notes collection.
type NoteDocument struct {
	ID        uuid.UUID
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note is the client-facing form of a note. It is derived from a
// NoteDocument on every read and never stored.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NoteUpdate is a partial field set. Nil fields are left untouched;
// UpdatedAt is always written.
type NoteUpdate struct {
	Title     *string
	Content   *string
	UpdatedAt time.Time
}

// TimestampLayout renders UTC instants as ISO-8601 with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func ToNote(doc NoteDocument) Note {
	return Note{
		ID:        doc.ID.String(),
		Title:     doc.Title,
		Content:   doc.Content,
		CreatedAt: FormatTimestamp(doc.CreatedAt),
		UpdatedAt: FormatTimestamp(doc.UpdatedAt),
	}
}

func ToNotes(docs []NoteDocument) []Note {
	notes := make([]Note, 0, len(docs))
	for _, doc := range docs {
		notes = append(notes, ToNote(doc))
	}
	return notes
}
