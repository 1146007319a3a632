package dto

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func requireFieldError(t *testing.T, err error, field, constraint string) {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, f := range verr.Fields {
		if f.Field == field && f.Constraint == constraint {
			return
		}
	}
	t.Fatalf("expected %s/%s in %+v", field, constraint, verr.Fields)
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name       string
		in         CreateNoteInput
		field      string
		constraint string
	}{
		{"valid", CreateNoteInput{Title: "Groceries", Content: "milk, eggs"}, "", ""},
		{"empty content", CreateNoteInput{Title: "t"}, "", ""},
		{"title at limit", CreateNoteInput{Title: strings.Repeat("a", MaxTitleLength)}, "", ""},
		{"multibyte title at limit", CreateNoteInput{Title: strings.Repeat("é", MaxTitleLength)}, "", ""},
		{"content at limit", CreateNoteInput{Title: "t", Content: strings.Repeat("x", MaxContentLength)}, "", ""},
		{"empty title", CreateNoteInput{Title: "", Content: "x"}, "title", "required"},
		{"title too long", CreateNoteInput{Title: strings.Repeat("a", MaxTitleLength+1)}, "title", "max"},
		{"content too long", CreateNoteInput{Title: "t", Content: strings.Repeat("x", MaxContentLength+1)}, "content", "max"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			requireFieldError(t, err, tt.field, tt.constraint)
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	assert.NoError(t, Validate(UpdateNoteInput{ID: "abc"}))
	assert.NoError(t, Validate(UpdateNoteInput{ID: "abc", Title: ptr("New"), Content: ptr("")}))

	requireFieldError(t, Validate(UpdateNoteInput{}), "id", "required")
	requireFieldError(t, Validate(UpdateNoteInput{ID: "abc", Title: ptr("")}), "title", "min")
	requireFieldError(t, Validate(UpdateNoteInput{ID: "abc", Title: ptr(strings.Repeat("a", MaxTitleLength+1))}), "title", "max")
	requireFieldError(t, Validate(UpdateNoteInput{ID: "abc", Content: ptr(strings.Repeat("x", MaxContentLength+1))}), "content", "max")
}

func TestLengthBoundsFollowLimits(t *testing.T) {
	paramOf := func(err error, field string) string {
		t.Helper()
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		for _, f := range verr.Fields {
			if f.Field == field {
				return f.Param
			}
		}
		t.Fatalf("no error for %s in %+v", field, verr.Fields)
		return ""
	}

	err := Validate(CreateNoteInput{Title: strings.Repeat("a", MaxTitleLength+1), Content: strings.Repeat("x", MaxContentLength+1)})
	assert.Equal(t, strconv.Itoa(MaxTitleLength), paramOf(err, "title"))
	assert.Equal(t, strconv.Itoa(MaxContentLength), paramOf(err, "content"))

	err = Validate(UpdateNoteInput{ID: "abc", Title: ptr(strings.Repeat("a", MaxTitleLength+1))})
	assert.Equal(t, strconv.Itoa(MaxTitleLength), paramOf(err, "title"))

	assert.NoError(t, Validate(SearchNotesInput{Query: strings.Repeat("q", MaxQueryLength)}))
	err = Validate(SearchNotesInput{Query: strings.Repeat("q", MaxQueryLength+1)})
	requireFieldError(t, err, "query", "max")
	assert.Equal(t, strconv.Itoa(MaxQueryLength), paramOf(err, "query"))
}

func TestValidateDelete(t *testing.T) {
	assert.NoError(t, Validate(DeleteNoteInput{ID: "abc"}))
	requireFieldError(t, Validate(DeleteNoteInput{}), "id", "required")
}

func TestParseCreateNote(t *testing.T) {
	in, err := ParseCreateNote([]byte(`{"title":"Groceries"}`))
	require.NoError(t, err)
	assert.Equal(t, CreateNoteInput{Title: "Groceries"}, in)

	_, err = ParseCreateNote([]byte(`{"title":"","content":"x"}`))
	requireFieldError(t, err, "title", "required")

	_, err = ParseCreateNote([]byte(`{"title":42}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "type", verr.Fields[0].Constraint)

	_, err = ParseCreateNote([]byte(`["title"]`))
	requireFieldError(t, err, "", "object")
}

func TestParseUpdateNoteKeepsAbsentFieldsNil(t *testing.T) {
	in, err := ParseUpdateNote([]byte(`{"id":"abc","content":"milk, eggs, bread"}`))
	require.NoError(t, err)
	assert.Nil(t, in.Title)
	require.NotNil(t, in.Content)
	assert.Equal(t, "milk, eggs, bread", *in.Content)
}

func TestParseDeleteNote(t *testing.T) {
	in, err := ParseDeleteNote([]byte(`{"id":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", in.ID)

	_, err = ParseDeleteNote([]byte(`{}`))
	requireFieldError(t, err, "id", "required")
}

func TestValidationErrorMessage(t *testing.T) {
	err := Validate(CreateNoteInput{})
	assert.Equal(t, "invalid input: Title is required", err.Error())
}
