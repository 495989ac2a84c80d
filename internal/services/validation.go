package services

import (
	"errors"
	"fmt"

	"kirana/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// blank is allowed and later stored as Uncategorized
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return name == "" || name == models.CategoryUncategorized || models.IsCategory(name)
	})
	return v
}

// fieldMessage overrides the user-facing message when a specific field/tag pair fails.
type fieldMessage struct {
	field, tag, message string
}

// validateInput checks v's struct tags. Missing required fields report fallback;
// otherwise the first matching override is used.
func validateInput(v any, fallback string, overrides ...fieldMessage) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	message := ""
	missing := false
	for _, e := range verrs {
		fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		if e.Tag() == "required" {
			missing = true
		}
		for _, o := range overrides {
			if message == "" && o.field == e.Field() && o.tag == e.Tag() {
				message = o.message
			}
		}
	}
	if missing || message == "" {
		message = fallback
	}
	return &models.ValidationError{Message: message, Fields: fields}
}
