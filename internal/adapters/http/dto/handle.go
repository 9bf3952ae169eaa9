package dto

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	seinfeld "github.com/noswap/seinfeld"
	"github.com/noswap/seinfeld/internal/platform/logging"
)

// GetTraceID extracts the OpenTelemetry trace ID from the request context.
// Returns an empty string when no trace is active.
func GetTraceID(c *gin.Context) string {
	span := trace.SpanFromContext(c.Request.Context())
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// MapStoreError maps a quote store error to an HTTP status code and error
// response. Unknown errors are mapped to 500 Internal Server Error with a
// generic message to avoid leaking internals.
func MapStoreError(err error) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case seinfeld.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())

	case seinfeld.IsInvalidArgument(err):
		resp := NewErrorResponse(ErrorCodeValidation, err.Error())

		var argErr *seinfeld.InvalidArgumentError
		if errors.As(err, &argErr) && argErr.Argument != "" {
			resp.Error.Details = map[string]string{
				argErr.Argument: argErr.Message,
			}
		}

		return http.StatusBadRequest, resp

	case seinfeld.IsNotConnected(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable,
			"quote database is unavailable",
		)

	case seinfeld.IsDataIntegrity(err):
		// Broken cross-references are a server-side data problem.
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"quote data is inconsistent",
		)

	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal,
			"an internal error occurred",
		)
	}
}

// HandleError maps a store error to an HTTP response and writes it.
// Includes the trace ID when available and logs internal errors.
func HandleError(c *gin.Context, err error) {
	status, errResp := MapStoreError(err)

	if traceID := GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	if status == http.StatusInternalServerError {
		logger := logging.FromContext(c.Request.Context())
		logger.Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// RespondWithValidationErrors writes a 400 response with field-level
// validation errors.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	errResp := NewErrorResponseWithDetails(
		ErrorCodeValidation,
		"request validation failed",
		fieldErrors,
	)

	if traceID := GetTraceID(c); traceID != "" {
		errResp.TraceID = traceID
	}

	c.JSON(http.StatusBadRequest, errResp)
}
