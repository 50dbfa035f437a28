package report

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/baggage-report-service/internal/models"
)

// MissingFieldError names the first required field a submission left blank.
// Received carries the sorted keys that were present, so a caller can see at
// a glance whether a field was dropped or merely misspelled.
type MissingFieldError struct {
	Field    string
	Received []string
}

func (e *MissingFieldError) Error() string {
	if len(e.Received) == 0 {
		return fmt.Sprintf("Missing: %s", e.Field)
	}
	return fmt.Sprintf("Missing: %s (received: %s)", e.Field, strings.Join(e.Received, ", "))
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the form field name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("form"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate enforces the required and incident-conditional rules on a Report.
// Violations are reported one at a time, in struct field order, as a
// MissingFieldError.
func Validate(rpt models.Report, received []string) error {
	err := validate.Struct(rpt)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &MissingFieldError{Field: verrs[0].Field(), Received: received}
	}
	return err
}
