package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"value,omitempty"`
}

var validate = validator.New()

func init() {
	validate.RegisterValidation("uuid_required", func(fl validator.FieldLevel) bool {
		if id, ok := fl.Field().Interface().(uuid.UUID); ok {
			return id != uuid.Nil
		}
		return false
	})

	// notblank rejects strings made only of whitespace.
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	// decimals validate as float64 so the numeric tags (gte, gt, ...) apply to money.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	validate.RegisterAlias("dec_gte0", "gte=0")
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errs []*ErrorResponse
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*ErrorResponse{{FailedField: "", Tag: "invalid", Value: err.Error()}}
	}
	for _, fe := range verrs {
		errs = append(errs, &ErrorResponse{
			FailedField: fe.StructNamespace(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return errs
}

// Message flattens validation failures into one client-facing sentence.
func Message(errs []*ErrorResponse) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		field := e.FailedField
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if e.Value != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, e.Tag, e.Value))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", field, e.Tag))
	}
	return strings.Join(parts, "; ")
}

// Var validates a single value against a tag, e.g. Var(email, "email").
func Var(value interface{}, tag string) bool {
	return validate.Var(value, tag) == nil
}
