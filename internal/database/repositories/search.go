package repositories

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"notesapp/internal/database/models"
)

// Search matches notes against the text index over title and content, best
// match first. Every word in query must match as a prefix.
func (r *noteRepository) Search(ctx context.Context, query string) ([]models.NoteDocument, error) {
	tsQuery := formatTsQuery(query)
	if tsQuery == "" {
		return []models.NoteDocument{}, nil
	}

	q := `
		SELECT ` + noteColumns + `
		FROM notes
		WHERE to_tsvector('english', title || ' ' || content) @@ to_tsquery('english', $1)
		ORDER BY ts_rank(to_tsvector('english', title || ' ' || content), to_tsquery('english', $1)) DESC,
			updated_at DESC, seq ASC`
	rows, err := r.db.Query(ctx, q, tsQuery)
	if err != nil {
		return nil, fmt.Errorf("error searching notes: %w", err)
	}
	return collectNotes(rows)
}

// formatTsQuery turns free text into a prefix-matching AND query. Characters
// with meaning in tsquery syntax are dropped.
func formatTsQuery(query string) string {
	words := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, word := range words {
		words[i] = strings.ToLower(word) + ":*"
	}
	return strings.Join(words, " & ")
}
