package dto

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 10000
	MaxQueryLength   = 200
)

type CreateNoteInput struct {
	Title   string `json:"title" validate:"required,notetitle"`
	Content string `json:"content" validate:"notecontent"`
}

// UpdateNoteInput mutates only the fields that are present.
type UpdateNoteInput struct {
	ID      string  `json:"id" validate:"required"`
	Title   *string `json:"title,omitempty" validate:"omitempty,notetitle"`
	Content *string `json:"content,omitempty" validate:"omitempty,notecontent"`
}

type DeleteNoteInput struct {
	ID string `json:"id" validate:"required"`
}

type SearchNotesInput struct {
	Query string `json:"query" validate:"searchquery"`
}

// FieldError describes one violated constraint.
type FieldError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Param      string `json:"param,omitempty"`
	Message    string `json:"message"`
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Length bounds come from the exported limits so the tags cannot drift.
		validate.RegisterAlias("notetitle", fmt.Sprintf("min=1,max=%d", MaxTitleLength))
		validate.RegisterAlias("notecontent", fmt.Sprintf("max=%d", MaxContentLength))
		validate.RegisterAlias("searchquery", fmt.Sprintf("max=%d", MaxQueryLength))
	})
	return validate
}

// Validate checks v against its struct tags. Failures are returned as a
// *ValidationError.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Fields: []FieldError{{Constraint: "invalid", Message: err.Error()}}}
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:      fe.Field(),
			Constraint: fe.ActualTag(),
			Param:      fe.Param(),
			Message:    fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.ActualTag() {
	case "title.required", "title.min":
		return "Title is required"
	case "title.max":
		return "Title too long"
	case "content.max":
		return "Content too long"
	case "id.required":
		return "Note ID is required"
	case "query.max":
		return "Search query too long"
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.ActualTag())
}

func ParseCreateNote(raw []byte) (CreateNoteInput, error) {
	var in CreateNoteInput
	if err := Decode(raw, &in); err != nil {
		return in, err
	}
	return in, Validate(in)
}

func ParseUpdateNote(raw []byte) (UpdateNoteInput, error) {
	var in UpdateNoteInput
	if err := Decode(raw, &in); err != nil {
		return in, err
	}
	return in, Validate(in)
}

func ParseDeleteNote(raw []byte) (DeleteNoteInput, error) {
	var in DeleteNoteInput
	if err := Decode(raw, &in); err != nil {
		return in, err
	}
	return in, Validate(in)
}

// Decode unmarshals raw into v without checking constraints. Anything that
// is not a JSON object whose fields have the declared types is a
// *ValidationError.
func Decode(raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return &ValidationError{Fields: []FieldError{{Constraint: "object", Message: "Expected a JSON object"}}}
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		field := ""
		if te, ok := err.(*json.UnmarshalTypeError); ok {
			field = te.Field
		}
		return &ValidationError{Fields: []FieldError{{
			Field:      field,
			Constraint: "type",
			Message:    "Malformed input: " + err.Error(),
		}}}
	}
	return nil
}
