package http

import (
	"errors"
	"log/slog"
	"net/http"

	"ordering/internal/adapters/in/http/api"
	"ordering/internal/core/domain/model/order"
	"ordering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

var errBadBody = errors.New("invalid request body")

// statusFor maps a workflow or validation error onto a response status and reason code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, order.ErrStaleStateConflict):
		return http.StatusConflict, api.ReasonStaleStateConflict
	case errors.Is(err, order.ErrOrderTerminal):
		return http.StatusConflict, api.ReasonOrderTerminal
	case errors.Is(err, order.ErrForbiddenTransition):
		return http.StatusForbidden, api.ReasonForbiddenTransition
	case errors.Is(err, order.ErrInvalidReconciliationInput):
		return http.StatusUnprocessableEntity, api.ReasonInvalidReconciliationInput
	case errors.Is(err, order.ErrInvalidTransitionInput):
		return http.StatusUnprocessableEntity, api.ReasonInvalidTransitionInput
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, api.ReasonNotFound
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return http.StatusUnprocessableEntity, api.ReasonValidationFailed
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, api.ReasonBadRequest
	default:
		return http.StatusInternalServerError, api.ReasonInternal
	}
}

func (s *Server) respondError(ctx echo.Context, err error) error {
	code, reason := statusFor(err)

	body := api.Error{Code: code, Reason: reason, Message: err.Error()}
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err)
		body.Message = "Internal server error"
	}

	var transitionErr *order.TransitionError
	if errors.As(err, &transitionErr) {
		current := transitionErr.Status.String()
		body.CurrentStatus = &current
	}

	return ctx.JSON(code, body)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, api.Error{
		Code:    http.StatusBadRequest,
		Reason:  api.ReasonBadRequest,
		Message: message,
	})
}

// NewErrorHandler renders errors that reach echo (unknown routes, parameter binding
// failures) in the same shape as handler errors.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "Internal server error"
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if m, ok := httpErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		} else {
			logger.ErrorContext(ctx.Request().Context(), "unhandled error", "path", ctx.Path(), "error", err)
		}

		reason := api.ReasonInternal
		switch {
		case code == http.StatusNotFound:
			reason = api.ReasonNotFound
		case code < http.StatusInternalServerError:
			reason = api.ReasonBadRequest
		}

		var sendErr error
		if ctx.Request().Method == http.MethodHead {
			sendErr = ctx.NoContent(code)
		} else {
			sendErr = ctx.JSON(code, api.Error{Code: code, Reason: reason, Message: message})
		}
		if sendErr != nil {
			logger.ErrorContext(ctx.Request().Context(), "failed to send error response", "error", sendErr)
		}
	}
}
