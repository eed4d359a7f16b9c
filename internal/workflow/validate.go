package workflow

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// checkStruct validates s and reports the first failing field by its JSON name.
func checkStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalid("Invalid request")
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalid("Missing required field: %s", fe.Field())
	case "email":
		return invalid("Invalid email address")
	case "max":
		return invalid("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return invalid("Invalid value for %s", fe.Field())
	}
}
