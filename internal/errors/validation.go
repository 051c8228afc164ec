package errors

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
)

// ValidationError is the 422 response body for record validation failures.
// Each field maps to one or more human-readable messages, matching the
// shape the persistence API returns to clients.
type ValidationError struct {
	Errors map[string][]string `json:"errors"`
}

// Error implements the error interface so a decoded 422 body can travel
// through ordinary error returns.
func (v *ValidationError) Error() string {
	return "validation failed: " + FlattenFieldErrors(v.Errors)
}

// Unprocessable sends a 422 response with field-level validation messages.
func Unprocessable(c *gin.Context, fieldErrors map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, ValidationError{Errors: fieldErrors})
}

// FlattenFieldErrors joins all field messages into a single display string.
// Fields are sorted so the output is stable for identical input.
func FlattenFieldErrors(fieldErrors map[string][]string) string {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		for _, msg := range fieldErrors[field] {
			parts = append(parts, field+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}
