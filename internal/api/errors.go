package api

import (
	"encoding/json" // Decode error types
	"errors"        // Error classification
	"fmt"           // Message formatting
	"io"            // Empty body detection
	"net/http"      // HTTP status codes
	"reflect"       // Struct tag lookup
	"strings"       // Tag parsing

	"wealthwise/internal/domain"  // Error taxonomy
	"wealthwise/internal/service" // Service errors

	"github.com/gin-gonic/gin"               // Gin web framework
	"github.com/gin-gonic/gin/binding"       // Request binding
	"github.com/go-playground/validator/v10" // Binding validation errors
	"github.com/sirupsen/logrus"             // Logging
)

func init() {
	// Report binding errors under the JSON field names clients send
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondError writes the status and body that err maps to
func respondError(c *gin.Context, err error) {
	if verr, ok := domain.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, verr.Fields) // Field -> messages
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"invite_token": []string{domain.ErrConflict.Error()}})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid username or password."})
	case errors.Is(err, domain.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": domain.ErrUnauthenticated.Error()})
	default:
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"error":  err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "A server error occurred."})
	}
}

// bindJSON decodes the request body into dst, answering 400 on failure
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrors(err).Fields)
		return false
	}
	return true
}

// bindingErrors converts decode and validator failures into field errors
func bindingErrors(err error) *domain.ValidationError {
	verr := &domain.ValidationError{}
	var fieldErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), fieldMessage(fe))
		}
	case errors.As(err, &typeErr) && typeErr.Field != "":
		verr.Add(typeErr.Field, fmt.Sprintf("Incorrect type. Expected %s.", typeErr.Type.Kind()))
	case errors.Is(err, io.EOF):
		verr.Add(domain.NonFieldErrors, "No data provided.")
	case errors.As(err, &syntaxErr):
		verr.Add(domain.NonFieldErrors, fmt.Sprintf("JSON parse error at offset %d.", syntaxErr.Offset))
	default:
		verr.Add(domain.NonFieldErrors, "Invalid request body.")
	}
	return verr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
