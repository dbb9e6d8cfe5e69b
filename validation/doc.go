// Package validation checks client configuration and request descriptors.
//
// Struct tag validation (go-playground/validator) is used for config structs:
//
//	type Config struct {
//	    DefaultHost string `validate:"required,hostname_port|hostname"`
//	}
//	err := validation.Validate(cfg)
//
// Request descriptors are checked programmatically so the builder can report
// every problem at once:
//
//	v := validation.New()
//	v.Required("host", host).OneOf("method", method, validation.HTTPMethods)
//	err := v.Error()
package validation
