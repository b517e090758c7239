package config

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/skillsenselab/notifykit/failure"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the configuration invariants: every partition needs at
// least one worker and a positive timeout, and channel names must be
// known. Violations are configuration failures, fatal at load time.
func Validate(cfg Config) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return failure.Config("configuration validation failed").WithCause(err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, fieldPath(e)+": "+describe(e))
	}

	return failure.Config(strings.Join(messages, "; "))
}

func fieldPath(e validator.FieldError) string {
	// Namespace is like "Config.Bulkhead.Email.Workers"; drop the root.
	ns := e.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		ns = ns[idx+1:]
	}
	return strings.ToLower(ns)
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "min":
		return "must be at least " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
