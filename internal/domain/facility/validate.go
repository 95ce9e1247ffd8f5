package facility

import (
	"errors"

	"facility_reports/internal/domain/report"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// validateStruct maps the first failing field onto a report.ValidationError with the
// message registered for it.
func validateStruct(v any, messages map[string]string) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &report.ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()]
	if !ok {
		msg = fe.Error()
	}
	return &report.ValidationError{Field: fe.Field(), Message: msg}
}
