package program

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormErrorKey holds errors that do not belong to a single field.
const FormErrorKey = "_form"

// Issue is one problem reported for a draft field.
type Issue struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// ValidationError rejects a draft. Issues keep the order the validator
// reported them in.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a draft against the program schema. It returns nil or a
// *ValidationError.
func Validate(d Draft) error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate draft: %w", err)
	}
	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{
			Path:    issuePath(fe),
			Message: issueMessage(fe),
		})
	}
	return &ValidationError{Issues: issues}
}

func issuePath(fe validator.FieldError) []string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return parts
}

func issueMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", name)
	case "gt":
		return fmt.Sprintf("%q must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%q must be greater than or equal to %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%q length must be less than or equal to %s characters long", name, fe.Param())
		}
		return fmt.Sprintf("%q must be less than or equal to %s", name, fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", name)
	}
}

var leadingQuoted = regexp.MustCompile(`^"[^"]*"`)

// SanitizeMessage replaces the leading quoted field name of a validator
// message with "Field": `"title" is required` becomes `Field is required`.
func SanitizeMessage(raw string) string {
	return leadingQuoted.ReplaceAllLiteralString(raw, "Field")
}

// DisplayError maps a creation error to the single field error shown to the
// operator. Only the first issue is used. ok is false when err is not a
// validation error.
func DisplayError(err error) (field, message string, ok bool) {
	var verr *ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) == 0 {
		return "", "", false
	}
	first := verr.Issues[0]
	field = FormErrorKey
	if len(first.Path) > 0 && first.Path[0] != "" {
		field = first.Path[0]
	}
	return field, SanitizeMessage(first.Message), true
}
