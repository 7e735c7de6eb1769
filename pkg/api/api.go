// Package api implements the REST playground for evaluating GML snippets
// and running persistent interpreter sessions.
package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lemonberrylabs/gm8-runtime/pkg/expr"
	"github.com/lemonberrylabs/gm8-runtime/pkg/gml"
	"github.com/lemonberrylabs/gm8-runtime/pkg/runtime"
	"github.com/lemonberrylabs/gm8-runtime/pkg/stdlib"
	"github.com/lemonberrylabs/gm8-runtime/pkg/store"
)

// MaxBodySize is the maximum request body size in bytes (1 MB).
const MaxBodySize = 1024 * 1024

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-Id"

// Server is the API server for the GML playground.
type Server struct {
	app   *fiber.App
	store *store.Store
	opts  []runtime.Option
	funcs []string
}

// New creates a new API server. opts configure the interpreters used by
// stateless evaluation; sessions take theirs from the store.
func New(s *store.Store, opts ...runtime.Option) *Server {
	srv := &Server{
		store: s,
		opts:  opts,
		funcs: stdlib.NewRegistry().Names(),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		BodyLimit:             MaxBodySize,
	})
	app.Use(requestLogger)

	app.Post("/v1/eval", srv.eval)
	app.Get("/v1/functions", srv.listFunctions)

	// Sessions API
	app.Post("/v1/sessions", srv.createSession)
	app.Get("/v1/sessions", srv.listSessions)
	app.Get("/v1/sessions/:id", srv.getSession)
	app.Post("/v1/sessions/:id\\:exec", srv.execSession)
	app.Delete("/v1/sessions/:id", srv.deleteSession)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing).
func (s *Server) App() *fiber.App {
	return s.app
}

// requestLogger tags each request with an id and logs its outcome.
func requestLogger(c *fiber.Ctx) error {
	id := c.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(RequestIDHeader, id)

	start := time.Now()
	err := c.Next()
	zap.L().Info("request",
		zap.String("request_id", id),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}

// --- Evaluation Handlers ---

type sourceRequest struct {
	Source string `json:"source"`
}

func parseSource(c *fiber.Ctx) (string, error) {
	var req sourceRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fmt.Errorf("invalid request body: %v", err)
	}
	if req.Source == "" {
		return "", errors.New("source is required")
	}
	return req.Source, nil
}

func (s *Server) eval(c *fiber.Ctx) error {
	source, err := parseSource(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}

	result, err := runtime.NewInterpreter(s.opts...).Exec(c.UserContext(), source)
	if err != nil {
		return scriptErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"result": store.NewVariable("", result),
	})
}

func (s *Server) listFunctions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"functions": s.funcs,
	})
}

// --- Session Handlers ---

func (s *Server) createSession(c *fiber.Ctx) error {
	sess := s.store.CreateSession()
	return c.Status(fiber.StatusOK).JSON(sess.Info(false))
}

func (s *Server) listSessions(c *fiber.Ctx) error {
	sessions := s.store.ListSessions()

	items := make([]store.Info, len(sessions))
	for i, sess := range sessions {
		items[i] = sess.Info(false)
	}

	return c.JSON(fiber.Map{
		"sessions": items,
	})
}

func (s *Server) getSession(c *fiber.Ctx) error {
	sess, err := s.store.GetSession(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	}
	return c.JSON(sess.Info(true))
}

// execSession runs source on a session. A script failure is still a
// recorded run, so it is reported inside the run with status 200.
func (s *Server) execSession(c *fiber.Ctx) error {
	sess, err := s.store.GetSession(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	}

	source, err := parseSource(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}

	run, err := sess.Exec(c.UserContext(), source)
	body := fiber.Map{"run": run}
	if err != nil {
		body["error"] = errorDetail(err)
	}
	return c.JSON(body)
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	if err := s.store.DeleteSession(c.Params("id")); err != nil {
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	}
	return c.JSON(fiber.Map{})
}

// --- Helpers ---

func errorResponse(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

// scriptErrorResponse maps an Exec failure to an HTTP status.
func scriptErrorResponse(c *fiber.Ctx, err error) error {
	code := fiber.StatusUnprocessableEntity
	switch {
	case errors.Is(err, runtime.ErrStepLimit):
		code = fiber.StatusTooManyRequests
	case errors.Is(err, expr.ErrStringTooLong):
		code = fiber.StatusRequestEntityTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusRequestTimeout
	default:
		var serr *runtime.ScriptError
		if !errors.As(err, &serr) {
			code = fiber.StatusBadRequest
		}
	}

	detail := errorDetail(err)
	detail["code"] = code
	return c.Status(code).JSON(fiber.Map{"error": detail})
}

// errorDetail renders err in the API error shape. Operand errors add the
// operator symbol and the offending operands, script errors the line.
func errorDetail(err error) fiber.Map {
	detail := fiber.Map{
		"message": err.Error(),
		"status":  errorStatus(err),
	}

	var serr *runtime.ScriptError
	if errors.As(err, &serr) {
		detail["line"] = serr.Line
		detail["statement"] = serr.Statement
	}

	var gerr *gml.Error
	if errors.As(err, &gerr) {
		operands := make([]store.Variable, len(gerr.Operands))
		for i, v := range gerr.Operands {
			operands[i] = store.NewVariable("", v)
		}
		detail["kind"] = gerr.Kind.String()
		detail["operator"] = gerr.Op.String()
		detail["operands"] = operands
	}
	return detail
}

func errorStatus(err error) string {
	var serr *runtime.ScriptError
	switch {
	case errors.Is(err, runtime.ErrStepLimit), errors.Is(err, expr.ErrStringTooLong):
		return "RESOURCE_EXHAUSTED"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "DEADLINE_EXCEEDED"
	case gml.IsInvalidOperands(err):
		return "FAILED_PRECONDITION"
	case errors.As(err, &serr):
		return "ABORTED"
	default:
		return "INVALID_ARGUMENT"
	}
}
