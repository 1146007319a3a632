package server

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/heptiolabs/healthcheck"

	"notesapp/internal/config"
	"notesapp/internal/database"
	"notesapp/internal/database/dto"
	"notesapp/internal/database/models"
	"notesapp/internal/notes"
)

// NoteFunctions is the server function surface the routes call into.
type NoteFunctions interface {
	GetNotes(ctx context.Context) ([]models.Note, error)
	CreateNote(ctx context.Context, in dto.CreateNoteInput) (models.Note, error)
	UpdateNote(ctx context.Context, in dto.UpdateNoteInput) (models.Note, error)
	DeleteNote(ctx context.Context, in dto.DeleteNoteInput) (notes.Ack, error)
	SearchNotes(ctx context.Context, in dto.SearchNotesInput) (models.SearchResult, error)
	CheckConnection(ctx context.Context) notes.ConnectionStatus
}

type FiberServer struct {
	*fiber.App

	db     database.Service
	notes  NoteFunctions
	health healthcheck.Handler
}

func New(cfg config.Config, db database.Service, fns NoteFunctions) *FiberServer {
	server := &FiberServer{
		App: fiber.New(fiber.Config{
			ServerHeader: cfg.AppName,
			AppName:      cfg.AppName,
			JSONEncoder:  json.Marshal,
			JSONDecoder:  json.Unmarshal,
			ErrorHandler: errorHandler,
		}),
		db:     db,
		notes:  fns,
		health: healthcheck.NewHandler(),
	}
	server.health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(10000))
	server.health.AddReadinessCheck("database", func() error {
		if !fns.CheckConnection(context.Background()).Connected {
			return errors.New("database is not reachable")
		}
		return nil
	})

	server.App.Use(recover.New())
	server.App.Use(favicon.New())
	server.App.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Requested-With",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		MaxAge:       3600,
	}))
	server.App.Use(logger.New())
	server.App.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return cfg.Env == "production"
		},
	}))
	return server
}

// errorHandler answers errors that escape a handler, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
