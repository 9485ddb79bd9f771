package validator

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// user ids are customer references keyed into the gallery store. Letters,
// digits, underscores, hyphens and dots only, max 50 characters.
var userIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]{1,50}$`)

func validateUserID(fl validator.FieldLevel) bool {
	return userIDRegex.MatchString(fl.Field().String())
}

func validateStruct(payload interface{}) *[]error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	errs := []error{}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		errs = append(errs, err)
		return &errs
	}
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errs = append(errs, fmt.Errorf("%s failed validation on the %s rule", fieldErr.Field(), fieldErr.Tag()))
	}
	return &errs
}
