// Package rest exposes the HTTP surface: route registration, bearer
// authentication middleware, and the user/auth/todo handlers.
package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	"github.com/taskforge/taskforge"
)

// Config is the slice of application configuration the server needs.
type Config interface {
	GetContextKey() string
	GetAuthScheme() string
}

// Server owns the fiber app and the collaborators handlers depend on.
type Server struct {
	app      *fiber.App
	repo     taskforge.RepositoryManager
	tokens   taskforge.TokenService
	resolver *taskforge.PrincipalResolver
	register *taskforge.RegisterUserHandler
	update   *taskforge.UpdateUserHandler
	logger   taskforge.Logger

	contextKey string
	authScheme string
}

type Option func(*Server)

func WithLogger(logger taskforge.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer wires the fiber app, middleware, and routes.
func NewServer(cfg Config, repo taskforge.RepositoryManager, tokens taskforge.TokenService, opts ...Option) *Server {
	s := &Server{
		repo:       repo,
		tokens:     tokens,
		register:   taskforge.NewRegisterUserHandler(repo),
		update:     taskforge.NewUpdateUserHandler(repo),
		logger:     taskforge.NewDefaultLogger(),
		contextKey: cfg.GetContextKey(),
		authScheme: cfg.GetAuthScheme(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.resolver = taskforge.NewPrincipalResolver(tokens, repo.Users()).WithLogger(s.logger)

	s.app = fiber.New(fiber.Config{
		AppName:      "taskforge",
		ErrorHandler: s.errorHandler,
	})

	s.routes()

	return s
}

// App exposes the fiber app, mainly for tests driving app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	s.app.Get("/", s.Root)

	s.app.Post("/users", s.CreateUser)
	s.app.Get("/users", s.ListUsers)
	s.app.Get("/users/:id", s.GetUser)
	s.app.Put("/users/:id", s.RequireAuth(), s.UpdateUser)
	s.app.Delete("/users/:id", s.RequireAuth(), s.DeleteUser)

	auth := s.app.Group("/auth")
	auth.Post("/token", s.Login)
	auth.Post("/refresh_token", s.RequireAuth(), s.RefreshToken)

	todos := s.app.Group("/todos", s.RequireAuth())
	todos.Post("/", s.CreateTodo)
	todos.Get("/", s.ListTodos)
	todos.Patch("/:id", s.UpdateTodo)
	todos.Delete("/:id", s.DeleteTodo)
}

// Root is a hello-world liveness endpoint.
func (s *Server) Root(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: "Hello World"})
}

type errorBody struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
	Errors any    `json:"errors,omitempty"`
}

// errorHandler maps rich errors to one status + message response.
// Nothing here distinguishes the auth failure modes; the handlers
// already collapsed them.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(errorBody{Detail: fiberErr.Message})
	}

	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := statusFromError(richErr)

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			"error", richErr.Message,
			"category", richErr.Category,
			"path", c.Path(),
		)
	} else {
		s.logger.Debug("request rejected",
			"error", richErr.Message,
			"status", status,
			"path", c.Path(),
		)
	}

	body := errorBody{
		Detail: richErr.Message,
		Code:   richErr.TextCode,
	}
	if richErr.Category == errors.CategoryValidation {
		if m := richErr.ValidationMap(); m != nil {
			body.Errors = m
		}
	}

	return c.Status(status).JSON(body)
}

func statusFromError(err *errors.Error) int {
	if err.Code > 0 {
		return err.Code
	}

	switch err.Category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusBadRequest
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
