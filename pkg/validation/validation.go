// Package validation runs declarative struct-tag rules over request DTOs and
// reports failures keyed by JSON field name.
//
// Rules live on the DTO itself:
//
//	type AddRollRequest struct {
//	    FabricType string           `json:"fabric_type" validate:"required,min=2,max=100"`
//	    Length     *decimal.Decimal `json:"length" validate:"required,gt=0,lte=99999999.99,decimal2"`
//	    EntryDate  string           `json:"entry_date" validate:"required,datetime=2006-01-02"`
//	}
//
// decimal.Decimal fields are validated as float64 so numeric tags (gt, gte, lte)
// apply to them directly. The decimal2 tag allows at most two decimals, the
// scale lengths are stored with.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	tagName     = "validate"
	tagDecimal2 = "decimal2"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New()
		v.SetTagName(tagName)

		// Report the JSON name ("fabric_type"), not the Go field name.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		// Registration only fails on an empty tag or nil func.
		_ = v.RegisterValidation(tagDecimal2, twoDecimals)

		validate = v
	})
	return validate
}

// Struct validates v and returns field → message for every failed rule.
// A nil map means v is valid.
func Struct(v interface{}) map[string]string {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := details[field]; seen {
			continue
		}
		details[field] = message(fe)
	}
	return details
}

// twoDecimals accepts numbers with at most two decimals. The float64 comes
// from the decimal custom type func; NewFromFloat keeps its shortest form.
func twoDecimals(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		d := decimal.NewFromFloat(field.Float())
		return d.Equal(d.Round(2))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case tagDecimal2:
		return fmt.Sprintf("%s must have at most 2 decimals", field)
	case "datetime":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
