package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of date parameters
const DateLayout = "2006-01-02"

// ValidationError represents a field-level validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	if len(ve.Errors) == 1 {
		return ve.Errors[0].Message
	}
	return fmt.Sprintf("validation failed with %d errors", len(ve.Errors))
}

// HasErrors returns true if there are validation errors
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// Add adds a validation error
func (ve *ValidationErrors) Add(field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Validator provides common validation methods
type Validator struct {
	errors ValidationErrors
}

// New creates a new Validator instance
func New() *Validator {
	return &Validator{
		errors: ValidationErrors{Errors: []ValidationError{}},
	}
}

// Required validates that a field is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, fmt.Sprintf("%s is required", field))
	}
	return v
}

// MaxLength validates maximum string length
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors.Add(field, fmt.Sprintf("%s must not exceed %d characters", field, max))
	}
	return v
}

// Date parses a YYYY-MM-DD value into dst
func (v *Validator) Date(field, value string, dst *time.Time) *Validator {
	if value == "" {
		return v
	}

	t, err := time.Parse(DateLayout, value)
	if err != nil {
		v.errors.Add(field, fmt.Sprintf("%s must be a date formatted as YYYY-MM-DD", field))
		return v
	}
	*dst = t
	return v
}

// DateOrder validates that start is not after end
func (v *Validator) DateOrder(startField string, start time.Time, endField string, end time.Time) *Validator {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		v.errors.Add(endField, fmt.Sprintf("%s must not be before %s", endField, startField))
	}
	return v
}

// ID parses a positive integer identifier into dst
func (v *Validator) ID(field, value string, dst *int64) *Validator {
	if value == "" {
		return v
	}

	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		v.errors.Add(field, fmt.Sprintf("%s must be a positive integer", field))
		return v
	}
	*dst = id
	return v
}

// IDList parses a comma separated list of positive integer identifiers into dst
func (v *Validator) IDList(field, value string, dst *[]int64) *Validator {
	if value == "" {
		return v
	}

	var ids []int64
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			v.errors.Add(field, fmt.Sprintf("%s must be a comma separated list of positive integers", field))
			return v
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		v.errors.Add(field, fmt.Sprintf("%s must not be empty", field))
		return v
	}
	*dst = ids
	return v
}

// Bool parses a boolean flag into dst
func (v *Validator) Bool(field, value string, dst *bool) *Validator {
	if value == "" {
		return v
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		v.errors.Add(field, fmt.Sprintf("%s must be a boolean", field))
		return v
	}
	*dst = b
	return v
}

// InRange validates that an integer is within a range
func (v *Validator) InRange(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.errors.Add(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
	return v
}

// GreaterThanOrEqual validates that an integer is greater than or equal to a minimum
func (v *Validator) GreaterThanOrEqual(field string, value, min int) *Validator {
	if value < min {
		v.errors.Add(field, fmt.Sprintf("%s must be greater than or equal to %d", field, min))
	}
	return v
}

// OneOf validates that a value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.errors.Add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	return v
}

// Matches validates that a string matches a regex pattern
func (v *Validator) Matches(field, value, pattern, message string) *Validator {
	if value == "" {
		return v
	}

	matched, err := regexp.MatchString(pattern, value)
	if err != nil || !matched {
		if message == "" {
			message = fmt.Sprintf("%s format is invalid", field)
		}
		v.errors.Add(field, message)
	}
	return v
}

// Custom allows for custom validation logic
func (v *Validator) Custom(field string, fn func() error) *Validator {
	if err := fn(); err != nil {
		v.errors.Add(field, err.Error())
	}
	return v
}

// Validate returns the validation errors if any exist
func (v *Validator) Validate() error {
	if v.errors.HasErrors() {
		return &v.errors
	}
	return nil
}

// Errors returns the validation errors
func (v *Validator) Errors() *ValidationErrors {
	return &v.errors
}
