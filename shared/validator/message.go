package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":    "{field} is required",
	"email":       "{field} must be a valid email address",
	"oneof":       "{field} must be one of {param}",
	"min":         "{field} must be greater than or equal to {param}",
	"max":         "{field} must be less than or equal to {param}",
	"gte":         "{field} must be greater than or equal to {param}",
	"lte":         "{field} must be less than or equal to {param}",
	"datetime":    "{field} must match the format {param}",
	"dive":        "{field} contains an invalid value",
	"mimetypes":   "{field} must be one of {param}",
	"maxfilesize": "{field} must not exceed {param} MB",
}

// message describes the first violation that has a friendly template, falling back
// to the validator's own text.
func message(err error) string {
	var violations val.ValidationErrors
	if !errors.As(err, &violations) {
		return err.Error()
	}

	for _, violation := range violations {
		if template, ok := messages[violation.Tag()]; ok {
			return strings.NewReplacer("{field}", violation.Field(), "{param}", violation.Param()).Replace(template)
		}
	}

	return violations.Error()
}
