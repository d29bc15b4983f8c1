package validator

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

var (
	validate        *validator.Validate
	personalIDRegex = regexp.MustCompile(`^\d{12}$`)
)

func init() {
	validate = validator.New()
	registerCustomTags(validate)

	// request DTOs are checked by gin's own validator instance
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustomTags(v)
	}
}

func registerCustomTags(v *validator.Validate) {
	_ = v.RegisterValidation("date_ymd", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})
	_ = v.RegisterValidation("time_hm", func(fl validator.FieldLevel) bool {
		return IsTime(fl.Field().String())
	})
	_ = v.RegisterValidation("personal_id", func(fl validator.FieldLevel) bool {
		return personalIDRegex.MatchString(fl.Field().String())
	})
}

// IsDate reports whether s is a calendar date in YYYY-MM-DD form.
func IsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsTime reports whether s is a wall-clock time in HH:MM form.
func IsTime(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// ValidationError carries the offending field -> tag pairs.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ",")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

// Struct is Validate as an error, for store-boundary checks.
func Struct(v interface{}) error {
	if fields := Validate(v); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
