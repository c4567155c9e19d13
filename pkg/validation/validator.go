package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Error carries one message per failing field.
type Error struct {
	Fields []string
}

func (e *Error) Error() string {
	return strings.Join(e.Fields, ", ")
}

// ValidateStruct runs the struct's validate tags and renders readable messages
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &Error{}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		param := fe.Param()

		switch fe.Tag() {
		case "required":
			out.Fields = append(out.Fields, field+" is required")
		case "gt":
			out.Fields = append(out.Fields, field+" must be greater than "+param)
		case "gte":
			out.Fields = append(out.Fields, field+" must be at least "+param)
		case "max":
			out.Fields = append(out.Fields, field+" must be at most "+param+" characters")
		case "email":
			out.Fields = append(out.Fields, field+" must be a valid email")
		case "oneof":
			out.Fields = append(out.Fields, field+" must be one of ["+param+"]")
		default:
			out.Fields = append(out.Fields, field+" is invalid")
		}
	}
	return out
}

// IsValidationError reports whether err came from ValidateStruct.
func IsValidationError(err error) bool {
	var verr *Error
	return errors.As(err, &verr)
}
