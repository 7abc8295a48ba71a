// Package server exposes the settlement engine over HTTP. Routes live
// under /api, authenticated by bearer JWT except registration and login.
// Live settlement events stream over server-sent events.
package server

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/rcampano/vaquita/internal/auth"
	"github.com/rcampano/vaquita/internal/notify"
	"github.com/rcampano/vaquita/internal/settlement"
)

// Server wires the settlement service, the authenticator, and the event
// hub into a fiber application.
type Server struct {
	app   *fiber.App
	svc   *settlement.Service
	authn auth.Authenticator
	jwt   *auth.JWTManager
	hub   *notify.Hub
	log   *slog.Logger
}

// New builds the fiber application and registers all routes.
func New(svc *settlement.Service, authn auth.Authenticator, jwt *auth.JWTManager, hub *notify.Hub, log *slog.Logger) *Server {
	s := &Server{
		svc:   svc,
		authn: authn,
		jwt:   jwt,
		hub:   hub,
		log:   log,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "vaquita",
		ErrorHandler: errorHandler,
		// Proof payloads are base64 images; allow bodies well past the
		// fiber default.
		BodyLimit: 16 * 1024 * 1024,
	})
	s.app.Use(cors.New())
	s.app.Use(logger.New())

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	// Public routes
	api.Post("/auth/register", s.register)
	api.Post("/auth/login", s.login)

	// Protected routes
	api.Use(s.requireAuth)

	api.Post("/groups", s.createGroup)
	api.Get("/groups", s.listGroups)
	api.Get("/groups/:groupId", s.groupDetail)
	api.Delete("/groups/:groupId", s.deleteGroup)
	api.Get("/groups/:groupId/delete-preview", s.previewDelete)
	api.Get("/groups/:groupId/verify-creator", s.verifyCreator)
	api.Get("/groups/:groupId/proofs", s.listProofs)
	api.Get("/groups/:groupId/proofs/:userId", s.getProof)

	api.Post("/groups/:groupId/pay", s.payWithoutProof)
	api.Post("/groups/:groupId/pay-with-proof", s.payWithProof)
	api.Post("/groups/:groupId/validate/:userId", s.validateProof)

	api.Get("/payments/pending", s.pendingPayments)
	api.Get("/dashboard/categories", s.categoryStats)
	api.Get("/dashboard/upcoming", s.upcomingDue)

	api.Get("/events/:groupId", s.streamEvents)
}

// Listen serves the application on the given address, blocking until
// shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully drains the application.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// errorHandler maps settlement error kinds to HTTP statuses and renders
// every failure as a JSON envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var se *settlement.Error
	var fe *fiber.Error
	switch {
	case errors.As(err, &se):
		code = statusOf(se.Kind)
	case errors.As(err, &fe):
		code = fe.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func statusOf(kind settlement.Kind) int {
	switch kind {
	case settlement.NotFound:
		return fiber.StatusNotFound
	case settlement.AlreadyPaid:
		return fiber.StatusConflict
	case settlement.Unauthorized:
		return fiber.StatusForbidden
	case settlement.InvalidInput:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
