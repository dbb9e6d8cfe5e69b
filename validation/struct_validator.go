package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/restkit/errors"
)

// structValidator reports fields under the key users write in config files:
// the mapstructure tag, then the json tag, then the snake_cased field name.
var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"mapstructure", "json"} {
			switch name, _, _ := strings.Cut(f.Tag.Get(key), ","); name {
			case "-":
				return ""
			case "":
			default:
				return name
			}
		}
		return toSnakeCase(f.Name)
	})
	return v
})

var ruleMessages = map[string]string{
	"required":      "is required",
	"min":           "must be at least %",
	"gte":           "must be at least %",
	"max":           "must be at most %",
	"lte":           "must be at most %",
	"oneof":         "must be one of: %",
	"hostname":      "must be a host name",
	"hostname_port": "must be a host name",
}

// Validate checks s against its `validate:"..."` tags and returns a
// validation *errors.AppError listing every failed field.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.Validation("validation failed").WithCause(err)
	}
	v := New()
	for _, fe := range fieldErrs {
		v.AddError(fe.Field(), ruleMessage(fe))
	}
	return v.Error()
}

func ruleMessage(fe validator.FieldError) string {
	msg, ok := ruleMessages[fe.Tag()]
	if !ok {
		return "is invalid"
	}
	return strings.Replace(msg, "%", fe.Param(), 1)
}

// toSnakeCase turns DefaultHost into default_host.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
