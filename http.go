package auth

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// errorScope holds the generic messages an endpoint falls back to
type errorScope struct {
	fallback string
	storage  string
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *AuthController) respond(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(payload)
}

// writeError is the single place auth failures become HTTP responses
func (a *AuthController) writeError(c *fiber.Ctx, err error, scope errorScope) error {
	status, message := a.classify(err, scope)

	switch {
	case status >= fiber.StatusInternalServerError:
		a.Logger.Error("auth request failed", "path", c.Path(), "status", status, "error", err)
	case a.Debug:
		a.Logger.Debug("auth request rejected", "path", c.Path(), "status", status, "error", err)
	}

	return a.respond(c, status, errorResponse{Error: message})
}

func (a *AuthController) classify(err error, scope errorScope) (int, string) {
	richErr, ok := richError(err)
	if !ok {
		return fiber.StatusInternalServerError, a.generic(err, scope.fallback)
	}

	switch {
	case IsConfigurationError(err):
		return fiber.StatusInternalServerError, ErrMisconfigured.Message
	case IsStorageError(err):
		return fiber.StatusServiceUnavailable, scope.storage
	case IsValidationError(err):
		return fiber.StatusBadRequest, richErr.Message
	case IsConflictError(err):
		return fiber.StatusConflict, richErr.Message
	case richErr.Category == goerrors.CategoryAuth:
		if IsInvalidTokenError(err) {
			return fiber.StatusUnauthorized, "Invalid or expired token."
		}
		return fiber.StatusUnauthorized, richErr.Message
	case IsNotFoundError(err):
		return fiber.StatusNotFound, "Account not found."
	}

	return fiber.StatusInternalServerError, a.generic(err, scope.fallback)
}

func (a *AuthController) generic(err error, fallback string) string {
	if a.Development && err != nil {
		return err.Error()
	}
	return fallback
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	DB      string `json:"db"`
}

// HealthHandler always answers 200, db reports the store reachability
func HealthHandler(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state := "connected"
		if db == nil || db.Ping(c.UserContext()) != nil {
			state = "disconnected"
		}
		return c.Status(fiber.StatusOK).JSON(healthResponse{
			Status:  "ok",
			Message: "where to go next API",
			DB:      state,
		})
	}
}

// ErrorHandler is the fiber app error handler. It only writes when the
// handler chain has not produced a response already.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return func(c *fiber.Ctx, err error) error {
		if len(c.Response().Body()) > 0 {
			logger.Warn("error after response was written", "path", c.Path(), "error", err)
			return nil
		}

		status := fiber.StatusInternalServerError
		message := "Internal server error."

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		} else {
			logger.Error("unhandled request error", "path", c.Path(), "error", err)
		}

		return c.Status(status).JSON(errorResponse{Error: message})
	}
}
