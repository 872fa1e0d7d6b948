package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MsgInvalidCourseCode is reported for any field failing the coursecode tag
const MsgInvalidCourseCode = "Course code should follow format like CSE110"

// fieldRule replaces the generic message and code for one struct field and tag
type fieldRule struct {
	code    ErrorCode
	message string
}

// fieldRules is keyed by "<Struct>.<Field>.<tag>"
var fieldRules = map[string]fieldRule{
	"SignupRequest.Email.required":    {ErrorCodeValidationFailed, MsgCredentialsRequired},
	"SignupRequest.Password.required": {ErrorCodeValidationFailed, MsgCredentialsRequired},
	"SignupRequest.Email.email":       {ErrorCodeInvalidEmail, MsgInvalidEmail},
	"SignupRequest.Password.min":      {ErrorCodeInvalidPassword, MsgPasswordTooShort},
}

// HandleValidationError converts a binding error into an ErrorDetail.
// A single failing field becomes the top-level message, as does a message
// shared by every failing field.
func HandleValidationError(err error) *ErrorDetail {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fields := make(map[string]string, len(validationErrors))
		code, first := fieldCodeAndMessage(validationErrors[0])
		shared := true
		for _, fe := range validationErrors {
			_, msg := fieldCodeAndMessage(fe)
			fields[jsonFieldName(fe)] = msg
			if msg != first {
				shared = false
			}
		}

		if len(validationErrors) == 1 {
			return NewErrorDetail(code, first).
				WithField(jsonFieldName(validationErrors[0])).
				WithDetails(fields)
		}
		message := "Validation failed"
		if shared {
			message = first
		}
		return NewErrorDetail(ErrorCodeValidationFailed, message).WithDetails(fields)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		return NewErrorDetail(ErrorCodeInvalidRequest, "Invalid request format").
			WithDetails(fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	case errors.As(err, &typeErr):
		return NewErrorDetail(ErrorCodeInvalidRequest, "Invalid request format").
			WithField(typeErr.Field).
			WithDetails(fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type))
	}

	return NewErrorDetail(ErrorCodeInvalidRequest, "Invalid request format").WithDetails(err.Error())
}

func fieldCodeAndMessage(fe validator.FieldError) (ErrorCode, string) {
	if rule, ok := fieldRules[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return rule.code, rule.message
	}
	return ErrorCodeValidationFailed, formatFieldError(fe)
}

func formatFieldError(fe validator.FieldError) string {
	field := jsonFieldName(fe)
	switch fe.Tag() {
	case "coursecode":
		return MsgInvalidCourseCode
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "email":
		return MsgInvalidEmail
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " validation failed: " + fe.Tag()
	}
}

// jsonFieldName lowercases the first letter of the struct field name,
// matching the camelCase JSON keys used by the request types.
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	if strings.HasSuffix(name, "ID") && len(name) > 2 {
		name = name[:len(name)-2] + "Id"
	}
	return strings.ToLower(name[:1]) + name[1:]
}
