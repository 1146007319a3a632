package server

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"notesapp/internal/database/dto"
	"notesapp/internal/notes"
)

func (s *FiberServer) RegisterFiberRoutes() {
	s.App.Get("/health", s.healthHandler)
	s.App.Get("/live", adaptor.HTTPHandler(s.health))
	s.App.Get("/ready", adaptor.HTTPHandler(s.health))
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.App.Group("/api")
	api.Get("/notes", s.getNotes)
	api.Get("/notes/search", s.searchNotes)
	api.Post("/notes", s.createNote)
	api.Put("/notes/:id", s.updateNote)
	api.Patch("/notes/:id", s.updateNote)
	api.Delete("/notes/:id", s.deleteNote)

	// Server function style endpoints: the whole input travels in the body.
	fn := s.App.Group("/_server")
	fn.Get("/getNotes", s.getNotes)
	fn.Get("/checkConnection", s.checkConnection)
	fn.Post("/createNote", s.createNote)
	fn.Post("/updateNote", s.updateNoteFn)
	fn.Post("/deleteNote", s.deleteNoteFn)
}

func (s *FiberServer) healthHandler(c *fiber.Ctx) error {
	status := s.notes.CheckConnection(c.UserContext())
	resp := fiber.Map{"connected": status.Connected}
	if s.db != nil {
		resp["database"] = s.db.Health(c.UserContext())
	}
	return c.JSON(resp)
}

func (s *FiberServer) checkConnection(c *fiber.Ctx) error {
	return c.JSON(s.notes.CheckConnection(c.UserContext()))
}

func (s *FiberServer) getNotes(c *fiber.Ctx) error {
	list, err := s.notes.GetNotes(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

func (s *FiberServer) searchNotes(c *fiber.Ctx) error {
	result, err := s.notes.SearchNotes(c.UserContext(), dto.SearchNotesInput{Query: c.Query("q")})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

func (s *FiberServer) createNote(c *fiber.Ctx) error {
	in, err := dto.ParseCreateNote(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	note, err := s.notes.CreateNote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (s *FiberServer) updateNote(c *fiber.Ctx) error {
	body := c.Body()
	// The id travels in the path, so an empty body is an update of nothing.
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}
	var in dto.UpdateNoteInput
	if err := dto.Decode(body, &in); err != nil {
		return writeError(c, err)
	}
	in.ID = c.Params("id")
	note, err := s.notes.UpdateNote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(note)
}

func (s *FiberServer) updateNoteFn(c *fiber.Ctx) error {
	in, err := dto.ParseUpdateNote(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	note, err := s.notes.UpdateNote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(note)
}

func (s *FiberServer) deleteNote(c *fiber.Ctx) error {
	ack, err := s.notes.DeleteNote(c.UserContext(), dto.DeleteNoteInput{ID: c.Params("id")})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ack)
}

func (s *FiberServer) deleteNoteFn(c *fiber.Ctx) error {
	in, err := dto.ParseDeleteNote(c.Body())
	if err != nil {
		return writeError(c, err)
	}
	ack, err := s.notes.DeleteNote(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(ack)
}

// writeError renders err with a status derived from its kind. Messages are
// the user-safe texts of the error types; causes stay in the logs.
func writeError(c *fiber.Ctx, err error) error {
	kind := notes.KindOf(err)
	body := fiber.Map{"error": err.Error(), "kind": kind.String()}

	var status int
	switch kind {
	case notes.KindValidation:
		status = fiber.StatusBadRequest
		if verr, ok := err.(*dto.ValidationError); ok {
			body["fields"] = verr.Fields
		}
	case notes.KindNotFound:
		status = fiber.StatusNotFound
		body["error"] = "Note not found"
	case notes.KindConnection:
		status = fiber.StatusServiceUnavailable
	case notes.KindConfiguration:
		status = fiber.StatusInternalServerError
	default:
		status = fiber.StatusInternalServerError
		if _, ok := err.(*notes.OperationError); !ok {
			zap.S().Errorf("Unclassified error in %s %s: %v", c.Method(), c.Path(), err)
			body["error"] = "Something went wrong"
		}
	}
	return c.Status(status).JSON(body)
}
