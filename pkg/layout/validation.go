package layout

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// formatValidationError converts validator errors to a user-friendly form,
// reporting the first failing field.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return err
	}

	e := validationErrs[0]
	field, tag, param := e.Field(), e.Tag(), e.Param()
	switch tag {
	case "oneof":
		return fmt.Errorf("%s: %q must be one of: %s", field, e.Value(), param)
	case "gte":
		return fmt.Errorf("%s: must be at least %s", field, param)
	case "lte":
		return fmt.Errorf("%s: must not exceed %s", field, param)
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, tag)
	}
}
