// Package validate contains the support for validating models.
package validate

import (
	"github.com/go-playground/validator/v10"
)

// validate holds the settings and caches for validating request struct
// values.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Check validates the provided model against its declared tags.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		return err
	}
	return nil
}
