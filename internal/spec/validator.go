package spec

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/mosen/jamfsync/internal/object"
	jamferrors "github.com/mosen/jamfsync/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	objectIDPattern = regexp.MustCompile(`^[a-z_]+/.+$`)
)

// validatorInstance configures and returns the shared validator used for
// document headers.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("object_kind", func(fl validator.FieldLevel) bool {
			return object.Kind(fl.Field().String()).Valid()
		})

		_ = v.RegisterValidation("object_id", func(fl validator.FieldLevel) bool {
			return objectIDPattern.MatchString(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

func validateHeader(header objectHeader) error {
	if err := validatorInstance().Struct(header); err != nil {
		return convertValidatorError(header, err)
	}
	return nil
}

func convertValidatorError(header objectHeader, err error) error {
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return jamferrors.NewValidationError(header.Name, "", err.Error(), err)
	}

	first := invalid[0]
	field := strings.ToLower(first.Field())
	identity := header.Kind + "/" + header.Name

	var message string
	switch first.Tag() {
	case "required":
		message = "value is required"
	case "object_kind":
		message = fmt.Sprintf("unknown kind %q", first.Value())
	case "object_id":
		message = fmt.Sprintf("expected kind/name, got %q", first.Value())
	default:
		message = fmt.Sprintf("failed %s constraint", first.Tag())
	}

	return jamferrors.NewValidationError(identity, field, message, err)
}
