package notes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapp/internal/database/dto"
)

func TestSeedOnlyWhenEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(sampleNotes), added)

	notes, err := svc.GetNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Welcome to Notes!", "About This App", "Quick Tips"}, titles(notes))

	added, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestSampleNotesAreValid(t *testing.T) {
	for _, n := range sampleNotes {
		assert.NoError(t, dto.Validate(dto.CreateNoteInput{Title: n.title, Content: n.content}))
	}
}
