package server

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"skillswap/internal/middleware"
	"skillswap/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	defaultPaginationLimit = 20
	maxPaginationLimit     = 100
)

// statusByCode maps every AppError code to its HTTP status.
var statusByCode = map[string]int{
	models.CodeValidation:           fiber.StatusBadRequest,
	models.CodeInvalidTransition:    fiber.StatusBadRequest,
	models.CodeInvalidReceiver:      fiber.StatusBadRequest,
	models.CodeSelfFeedback:         fiber.StatusBadRequest,
	models.CodeInvalidRating:        fiber.StatusBadRequest,
	models.CodeUnauthorized:         fiber.StatusUnauthorized,
	models.CodeInvalidToken:         fiber.StatusUnauthorized,
	models.CodeUnknownSubject:       fiber.StatusUnauthorized,
	models.CodeForbidden:            fiber.StatusForbidden,
	models.CodeInsufficientRole:     fiber.StatusForbidden,
	models.CodeAccountInactive:      fiber.StatusForbidden,
	models.CodeAccountBanned:        fiber.StatusForbidden,
	models.CodeNotFound:             fiber.StatusNotFound,
	models.CodeConflict:             fiber.StatusConflict,
	models.CodeDuplicateFeedback:    fiber.StatusConflict,
	models.CodePayloadTooLarge:      fiber.StatusRequestEntityTooLarge,
	models.CodeUnsupportedMediaType: fiber.StatusUnsupportedMediaType,
	models.CodeInternal:             fiber.StatusInternalServerError,
}

// statusFor returns the HTTP status for err. Unknown errors are 500.
func statusFor(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if status, ok := statusByCode[appErr.Code]; ok {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// respondError writes err as a JSON error body. Anything that is not an
// AppError is logged and reported as an internal error.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}
	status := statusFor(appErr)
	if status == fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}
	return models.RespondWithError(c, status, appErr)
}

func badRequest(c *fiber.Ctx, message string) error {
	return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError(message))
}

// parseBody decodes the request body into dest.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = badRequest(c, "Invalid request body")
		return errResponseWritten
	}
	return nil
}

// currentActor returns the user resolved by AuthRequired.
func currentActor(c *fiber.Ctx) *models.User {
	actor, _ := c.Locals("actor").(*models.User)
	return actor
}

// parsePagination extracts limit and offset query parameters.
func parsePagination(c *fiber.Ctx) Pagination {
	limit := c.QueryInt("limit", defaultPaginationLimit)
	if limit <= 0 {
		limit = defaultPaginationLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = badRequest(c, "Invalid "+humanizeParam(param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "swapId" -> "swap ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}
