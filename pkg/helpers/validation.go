package helpers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// maxAmountIntegerDigits matches DECIMAL(12,2)
const maxAmountIntegerDigits = 10

// CustomValidator wraps go-playground validator with the payment rules
type CustomValidator struct {
	validate *validator.Validate
}

// NewCustomValidator creates a validator that reports json field names and
// understands decimal.Decimal amounts
func NewCustomValidator() *CustomValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterValidation("decimal_amount", validateDecimalAmount)
	v.RegisterValidation("notblank", validateNotBlank)

	return &CustomValidator{validate: v}
}

// Validate validates a struct
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

// validateDecimalAmount accepts non-negative amounts with at most two fraction
// digits that fit DECIMAL(12,2)
func validateDecimalAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	if d.IsNegative() {
		return false
	}

	s := d.String()
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(fracPart) > 2 {
		return false
	}
	return len(intPart) <= maxAmountIntegerDigits
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
