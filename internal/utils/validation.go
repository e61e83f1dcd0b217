package utils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FormatValidationError formats validator errors into a field-level message.
func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			if e.Param() != "" {
				msgs = append(msgs, fmt.Sprintf("%s failed on the '%s=%s' rule", e.Field(), e.Tag(), e.Param()))
			} else {
				msgs = append(msgs, fmt.Sprintf("%s failed on the '%s' rule", e.Field(), e.Tag()))
			}
		}
		return strings.Join(msgs, ", ")
	}
	return err.Error()
}

// BindAndValidate binds the request body to a struct and validates it.
// If binding or validation fails, it sends a BadRequest response with
// field-level detail and returns false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		BadRequest(c, "Invalid request payload: "+FormatValidationError(err))
		return false
	}
	return true
}
