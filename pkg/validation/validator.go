package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/spaceboard/internal/domain/entity"
)

// Init configures the global validator used by Gin's binding: errors are
// keyed by JSON field name and the issue enums become tags.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		register(v)
	}
}

// register adds the project's aliases and enum validators to v.
func register(v *validator.Validate) {
	v.RegisterAlias("pwd", "min=8") // password minimum length
	_ = v.RegisterValidation("issuestatus", func(fl validator.FieldLevel) bool {
		return entity.IssueStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("issuepriority", func(fl validator.FieldLevel) bool {
		return entity.IssuePriority(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("issueteam", func(fl validator.FieldLevel) bool {
		return entity.Team(fl.Field().String()).Valid()
	})
}

// ToDetails converts binding errors into field → message for error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			field := fe.Field()
			out[field] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

var tagMessages = map[string]string{
	"required":      "is required",
	"email":         "must be a valid email",
	"uuid":          "must be a valid UUID",
	"url":           "must be a valid URL",
	"hexcolor":      "must be a valid hexadecimal color",
	"datetime":      "must be a valid date",
	"pwd":           "must be at least 8 characters long",
	"issuestatus":   "must be one of: " + joinValues(entity.IssueStatuses),
	"issuepriority": "must be one of: " + joinValues(entity.IssuePriorities),
	"issueteam":     "must be one of: " + joinValues(entity.Teams),
}

func formatFieldError(fe validator.FieldError) string {
	if msg, ok := tagMessages[fe.Tag()]; ok {
		return msg
	}
	param := fe.Param()
	unit := " characters long"
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		unit = " items"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		unit = ""
	}
	switch fe.Tag() {
	case "min", "gte":
		return "must be at least " + param + unit
	case "max", "lte":
		return "must be at most " + param + unit
	case "len":
		return "must be exactly " + param + unit
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	}
	if param != "" {
		return fmt.Sprintf("failed %s=%s", fe.Tag(), param)
	}
	return "is invalid"
}

func joinValues[T ~string](vals []T) string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return strings.Join(out, ", ")
}
