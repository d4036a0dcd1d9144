package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/config/config.go
//   type ViewConfig struct {
//       Speed float64 `yaml:"speed" validate:"gt=0"`
//       Align string  `yaml:"align" validate:"oneof=none center curve"`
//   }
//
// Custom tags registered here:
//   wrapmode - empty, clamp, loop or pingpong

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for empty tags or nil funcs.
		_ = validatorInst.RegisterValidation("wrapmode", isWrapMode)
	})
	return validatorInst
}

func isWrapMode(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "clamp", "loop", "pingpong":
		return true
	}
	return false
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}

// Var validates a single variable against the provided tag constraints.
func Var(field any, tag string) error {
	return get().Var(field, tag)
}
