package http

import (
	"errors"
	"fmt"
	"net/http"

	"tiffin/internal/core/domain/services"
	"tiffin/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeBadRequest        = "bad_request"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeMissingLocation   = "missing_location"
	CodeTooManyStops      = "too_many_stops"
	CodeInternal          = "internal_error"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code          string `json:"code"`
	Message       string `json:"message"`
	CurrentStatus string `json:"current_status,omitempty"`
	TargetStatus  string `json:"target_status,omitempty"`
	DeliveryID    string `json:"delivery_id,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

// toErrorResponse maps an application error onto a status code and body.
func toErrorResponse(err error) (int, ErrorResponse) {
	var (
		transition *errs.InvalidTransitionError
		missing    *services.MissingLocationError
		tooMany    *services.TooManyStopsError
		validation *RequestValidationError
		httpErr    *echo.HTTPError
	)

	switch {
	case errors.As(err, &transition):
		return http.StatusConflict, ErrorResponse{
			Code:          CodeInvalidTransition,
			Message:       err.Error(),
			CurrentStatus: transition.Current,
			TargetStatus:  transition.Target,
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, ErrorResponse{Code: CodeNotFound, Message: err.Error()}
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Code:       CodeMissingLocation,
			Message:    err.Error(),
			DeliveryID: missing.DeliveryID.String(),
		}
	case errors.As(err, &tooMany):
		return http.StatusUnprocessableEntity, ErrorResponse{
			Code:    CodeTooManyStops,
			Message: err.Error(),
			Limit:   tooMany.Limit,
		}
	case errors.As(err, &validation),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, ErrorResponse{Code: CodeBadRequest, Message: err.Error()}
	case errors.As(err, &httpErr):
		return httpErr.Code, ErrorResponse{Code: codeForStatus(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Code:    CodeInternal,
			Message: http.StatusText(http.StatusInternalServerError),
		}
	}
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return CodeNotFound
	case status >= http.StatusInternalServerError:
		return CodeInternal
	default:
		return CodeBadRequest
	}
}

// NewErrorHandler returns an echo.HTTPErrorHandler writing ErrorResponse
// bodies. Server errors are logged with their cause; the client only sees
// the status text.
func NewErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := toErrorResponse(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("failed to write error response")
		}
	}
}
