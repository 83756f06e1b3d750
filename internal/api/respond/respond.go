// Package respond maps domain errors and binding failures onto the JSON error
// shapes shared by every handler.
package respond

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"unicode"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// report form/json tag names instead of Go field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"form", "json"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return ""
		})
	}
}

// Fail writes {status:"error", message} and aborts.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": "error", "message": message})
}

// Invalid writes a 400 with per-field messages.
func Invalid(c *gin.Context, verr *errs.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "validation failed",
		"fields":  verr.Fields,
	})
}

// Error maps err to a status code. Unknown errors become a logged 500.
func Error(c *gin.Context, err error) {
	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		Invalid(c, verr)
	case errors.Is(err, errs.ErrNotFound):
		Fail(c, http.StatusNotFound, "Not found")
	case errors.Is(err, errs.ErrForbidden):
		Fail(c, http.StatusForbidden, "Access denied")
	case errors.Is(err, errs.ErrInvalidOperation):
		Fail(c, http.StatusBadRequest, invalidMessage(err))
	default:
		logging.FromContext(c).Error().Err(err).Msg("request failed")
		Fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// invalidMessage strips the sentinel prefix: "invalid operation: cannot follow
// yourself" -> "cannot follow yourself".
func invalidMessage(err error) string {
	msg := err.Error()
	prefix := errs.ErrInvalidOperation.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}

// BindError converts a gin binding error into a ValidationError. Non
// validator errors (bad JSON, wrong types) land under "__all__".
func BindError(err error) *errs.ValidationError {
	out := &errs.ValidationError{Fields: map[string]string{}}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		out.Fields["__all__"] = "Invalid request."
		return out
	}
	for _, fe := range ves {
		name := fe.Field()
		if name == "" || name == fe.StructField() {
			name = SnakeCase(fe.StructField())
		}
		out.Fields[name] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select one of: %s.", fe.Param())
	case "eqfield":
		return "The two fields didn't match."
	default:
		return "Invalid value."
	}
}

// SnakeCase turns "YearCreated" into "year_created".
func SnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
