package notes

import (
	"context"
	"fmt"

	"notesapp/internal/database/models"
)

var sampleNotes = []struct{ title, content string }{
	{
		title: "Welcome to Notes!",
		content: "This is your first note. You can edit or delete it, or create new ones.\n\n" +
			"Key features:\n- Create, read, update, delete notes\n- Most recently edited notes first\n- Search across titles and content",
	},
	{
		title: "About This App",
		content: "This application demonstrates:\n\n- Typed server functions over HTTP\n" +
			"- PostgreSQL as a document store, no ORM\n- Connection pooling for short-lived instances",
	},
	{
		title: "Quick Tips",
		content: "1. Notes are sorted by last updated\n2. Titles are limited to 200 characters\n" +
			"3. Content is limited to 10000 characters\n4. Try creating, editing, and deleting notes",
	},
}

// Seed inserts the sample notes when the collection is empty and returns how
// many notes were added.
func (s *Service) Seed(ctx context.Context) (int, error) {
	coll, err := s.collection(ctx)
	if err != nil {
		return 0, err
	}
	count, err := coll.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	now := s.timestamp()
	docs := make([]models.NoteDocument, 0, len(sampleNotes))
	for _, n := range sampleNotes {
		docs = append(docs, models.NoteDocument{
			Title:     n.title,
			Content:   n.content,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if err := coll.InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("error seeding notes: %w", err)
	}
	return len(docs), nil
}
