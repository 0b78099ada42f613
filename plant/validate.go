package plant

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	pcErrors "github.com/ezoic/plantcare/pkg/errors"
)

// InvalidValueMessage is shown to users when an input is out of range.
const InvalidValueMessage = "Invalid value! Please enter a realistic agricultural value."

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the plant tags registered.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		if err := RegisterValidations(v); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// RegisterValidations installs the "stage" and "leafcolor" tags on v.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("stage", func(fl validator.FieldLevel) bool {
		return Stage(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("leafcolor", func(fl validator.FieldLevel) bool {
		return LeafColor(fl.Field().String()).Valid()
	})
}

// Validate checks o against the accepted agricultural ranges.
func (o Observation) Validate() error {
	return validateStruct(o)
}

// Validate checks the observation and the labels of r.
func (r Record) Validate() error {
	return validateStruct(r)
}

// Validate checks that insect visibility was answered.
func (p PestIndicators) Validate() error {
	return validateStruct(p)
}

// validateStruct maps the first failing field to a ValidationError.
func validateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !pcErrors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return pcErrors.Wrap(err, "validate")
	}

	fe := fieldErrs[0]
	var reason string
	if fe.Param() != "" {
		reason = fmt.Sprintf("%s (%s=%s)", InvalidValueMessage, fe.Tag(), fe.Param())
	} else {
		reason = fmt.Sprintf("%s (%s)", InvalidValueMessage, fe.Tag())
	}
	return pcErrors.NewValidationError(fe.Field(), reason, fe.Value())
}
