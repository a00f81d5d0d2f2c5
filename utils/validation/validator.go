package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sri-maddineni/college-shortlister/model"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the record rules registered
func NewValidator() *Validator {
	v := validator.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("admission_status", func(fl validator.FieldLevel) bool {
		_, err := model.ParseAdmissionStatus(fl.Field().String())
		return err == nil
	})
	v.RegisterValidation("exam_kind", func(fl validator.FieldLevel) bool {
		kind, err := model.ParseExamKind(fl.Field().String())
		return err == nil && kind != ""
	})
	v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationErrors converts validation errors to a user-friendly format keyed
// by the JSON path of the offending field
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := fieldPath(e.Namespace())
			switch e.Tag() {
			case "required":
				errors[field] = fmt.Sprintf("%s is required", e.Field())
			case "min":
				errors[field] = fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
			case "max":
				errors[field] = fmt.Sprintf("%s must be at most %s", e.Field(), e.Param())
			case "gte":
				errors[field] = fmt.Sprintf("%s must be greater than or equal to %s", e.Field(), e.Param())
			case "admission_status":
				errors[field] = fmt.Sprintf("%s must be one of %s", e.Field(), joinLabels())
			case "exam_kind":
				errors[field] = fmt.Sprintf("%s must be one of IELTS, TOEFL, GRE, Duolingo", e.Field())
			case "calendar_date":
				errors[field] = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", e.Field())
			case "unique":
				errors[field] = fmt.Sprintf("%s must not list the same exam twice", e.Field())
			default:
				errors[field] = fmt.Sprintf("%s is invalid", e.Field())
			}
		}
	}

	return errors
}

// ProblemsToMap converts record-level problems to the same shape as FormatValidationErrors
func ProblemsToMap(problems []model.FieldProblem) map[string]string {
	errors := make(map[string]string, len(problems))
	for _, p := range problems {
		if prev, ok := errors[p.Field]; ok {
			errors[p.Field] = prev + "; " + p.Message
			continue
		}
		errors[p.Field] = fmt.Sprintf("%s %s", p.Field, p.Message)
	}
	return errors
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}

// "RecordRequest.requiredExams[0].exam" -> "requiredExams[0].exam"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func joinLabels() string {
	labels := make([]string, len(model.AdmissionStatuses))
	for i, s := range model.AdmissionStatuses {
		labels[i] = string(s)
	}
	return strings.Join(labels, ", ")
}
