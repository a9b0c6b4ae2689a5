package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega/internal/domain"
	domaininv "github.com/jhoicas/bodega/internal/domain/inventory"
)

// newValidator valida los DTO de entrada: decimal.Decimal se valida como float64
// (para gte/lte) y "calendardate" acepta los formatos de fecha del catálogo.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
		_, ok := domaininv.ParseCalendarDate(fl.Field().String())
		return ok
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validationError traduce los errores del validador a un único ErrInvalidInput legible.
func validationError(prefix string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, prefix, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, prefix, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " es obligatorio"
	case "gte":
		return field + " no puede ser negativo"
	case "max":
		return fmt.Sprintf("%s supera %s caracteres", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	case "calendardate":
		return fmt.Sprintf("%s no es una fecha válida (YYYY-MM-DD, DD-MM-YYYY, DD/MM/YY...)", field)
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}
