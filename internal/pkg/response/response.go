package response

import (
	"offerings-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SuccessBody is the standardized success JSON shape.
type SuccessBody struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Data     interface{} `json:"data"`
	Metadata interface{} `json:"metadata,omitempty"`
}

// ErrorBody is the standardized error JSON shape.
type ErrorBody struct {
	Status string      `json:"status"`
	Error  ErrorDetail `json:"error"`
}

// ErrorDetail is the nested error object. Kind is the domain error kind, when there is one.
type ErrorDetail struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"statusCode"`
	Kind       string      `json:"kind,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

const statusSuccess = "success"
const statusError = "error"

// Success sends a 200 OK response with the standard success format.
func Success(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return send(c, fiber.StatusOK, message, data, metadata)
}

// SuccessCreated sends a 201 Created response with the standard success format.
func SuccessCreated(c *fiber.Ctx, message string, data interface{}, metadata interface{}) error {
	return send(c, fiber.StatusCreated, message, data, metadata)
}

func send(c *fiber.Ctx, status int, message string, data, metadata interface{}) error {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	return c.Status(status).JSON(SuccessBody{
		Status:   statusSuccess,
		Message:  message,
		Data:     data,
		Metadata: metadata,
	})
}

// Error sends a response with the standard error format.
func Error(c *fiber.Ctx, message string, statusCode int, details interface{}) error {
	return writeError(c, message, statusCode, "", details)
}

func writeError(c *fiber.Ctx, message string, statusCode int, kind string, details interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	return c.Status(statusCode).JSON(ErrorBody{
		Status: statusError,
		Error: ErrorDetail{
			Message:    message,
			StatusCode: statusCode,
			Kind:       kind,
			Details:    details,
		},
	})
}

// Unauthorized sends 401 with the same shape as other errors.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, message, fiber.StatusUnauthorized, nil)
}

var kindStatus = map[string]int{
	"InvalidPrice":        fiber.StatusBadRequest,
	"InvalidQuantity":     fiber.StatusBadRequest,
	"CapacityExceeded":    fiber.StatusConflict,
	"AccessDenied":        fiber.StatusForbidden,
	"NotFound":            fiber.StatusNotFound,
	"ValidationFailed":    fiber.StatusUnprocessableEntity,
	"ConcurrencyConflict": fiber.StatusConflict,
	"StorageUnavailable":  fiber.StatusServiceUnavailable,
}

// StatusFor maps a domain error to its HTTP status; anything else is a 500.
func StatusFor(err error) int {
	if status, ok := kindStatus[domain.KindOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// FromError renders err in the standard error format. Storage details are not
// exposed to clients.
func FromError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	kind := domain.KindOf(err)
	message := err.Error()
	switch status {
	case fiber.StatusServiceUnavailable:
		log.Error().Err(err).Str("path", c.Path()).Msg("storage unavailable")
		message = "Service temporarily unavailable, try again later"
	case fiber.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		message = "Internal Server Error"
	}
	return writeError(c, message, status, kind, nil)
}
