// Package validation runs struct-tag validation on decoded request bodies and
// reports failures by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	if err := v.RegisterValidation("between", between); err != nil {
		panic(err)
	}
	return v
}

// between checks that a numeric field, or a string holding a number such as
// json.Number, lies within the inclusive bounds given as "lo hi".
func between(fl validator.FieldLevel) bool {
	bounds := strings.Fields(fl.Param())
	if len(bounds) != 2 {
		return false
	}
	lo, errLo := strconv.ParseFloat(bounds[0], 64)
	hi, errHi := strconv.ParseFloat(bounds[1], 64)
	if errLo != nil || errHi != nil {
		return false
	}

	var value float64
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		parsed, err := strconv.ParseFloat(field.String(), 64)
		if err != nil {
			return false
		}
		value = parsed
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value = float64(field.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		value = float64(field.Uint())
	case reflect.Float32, reflect.Float64:
		value = field.Float()
	default:
		return false
	}

	return value >= lo && value <= hi
}

// Violation is a failed rule other than "required".
type Violation struct {
	Field string
	Rule  string
	Param string
}

// Result splits validation failures into absent fields and rule violations,
// each in struct declaration order.
type Result struct {
	Missing    []string
	Violations []Violation
}

// Check validates dst, which must be a pointer to a struct or a struct.
func Check(dst any) (Result, error) {
	err := validate.Struct(dst)
	if err == nil {
		return Result{}, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Result{}, err
	}

	var result Result
	for _, fieldErr := range fieldErrs {
		if fieldErr.Tag() == "required" {
			result.Missing = append(result.Missing, fieldErr.Field())
			continue
		}
		result.Violations = append(result.Violations, Violation{
			Field: fieldErr.Field(),
			Rule:  fieldErr.Tag(),
			Param: fieldErr.Param(),
		})
	}

	return result, nil
}
