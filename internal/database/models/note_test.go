package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestToNote(t *testing.T) {
	id := uuid.MustParse("6f1c1e3a-8f0d-4b8e-9a55-2c1f0f6f7b10")
	created := time.Date(2024, 3, 9, 14, 5, 7, 123456789, time.FixedZone("CET", 3600))
	updated := created.Add(90 * time.Minute)

	note := ToNote(NoteDocument{
		ID:        id,
		Title:     "Groceries",
		Content:   "milk, eggs",
		CreatedAt: created,
		UpdatedAt: updated,
	})

	assert.Equal(t, Note{
		ID:        "6f1c1e3a-8f0d-4b8e-9a55-2c1f0f6f7b10",
		Title:     "Groceries",
		Content:   "milk, eggs",
		CreatedAt: "2024-03-09T13:05:07.123Z",
		UpdatedAt: "2024-03-09T14:35:07.123Z",
	}, note)
}

func TestToNotesEmpty(t *testing.T) {
	notes := ToNotes(nil)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}
