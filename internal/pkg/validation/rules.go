package validation

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Course code: 2-4 uppercase letters followed by 3-4 digits, e.g. CSE110
	CourseCodePattern = `^[A-Z]{2,4}\d{3,4}$`

	// Password min length, mirrored by the min=6 binding on SignupRequest
	PasswordMinLength = 6
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	CourseCode *regexp.Regexp
}{
	CourseCode: regexp.MustCompile(CourseCodePattern),
}

// IsValidCourseCode reports whether code looks like CSE110
func IsValidCourseCode(code string) bool {
	return CompiledPatterns.CourseCode.MatchString(code)
}

// RegisterCustomValidators adds the coursecode tag to gin's validator engine
func RegisterCustomValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterOn(v)
}

// RegisterOn registers the custom tags on v
func RegisterOn(v *validator.Validate) error {
	return v.RegisterValidation("coursecode", func(fl validator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		if value == "" {
			// Presence is checked by "required"
			return true
		}
		return IsValidCourseCode(value)
	})
}
