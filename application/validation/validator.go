// Package validation checks manifests and configuration structs against their
// `validate` tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/liangz0707/FirstEngine/domain/entities"
	bterrors "github.com/liangz0707/FirstEngine/domain/errors"
	"github.com/liangz0707/FirstEngine/domain/ports"
)

// validate is a package-level singleton; validator caches struct metadata.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	if err := v.RegisterValidation("glob", validGlob); err != nil {
		panic(err)
	}
	return v
}

// fieldName reports fields by their yaml key so errors match what users wrote.
func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func validGlob(fl validator.FieldLevel) bool {
	return doublestar.ValidatePattern(fl.Field().String())
}

// Struct validates v and returns the first failure as a *errors.ConfigError.
func Struct(v any) error {
	errs, err := check(v)
	if err != nil {
		return &bterrors.ConfigError{Err: err}
	}
	if len(errs) == 0 {
		return nil
	}
	return &bterrors.ConfigError{Field: errs[0].Field, Err: errors.New(errs[0].Message)}
}

// check returns every field failure of v. The error is non-nil only when v
// cannot be validated at all.
func check(v any) ([]entities.ValidationError, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	out := make([]entities.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, entities.ValidationError{Field: path(fe), Message: message(fe)})
	}
	return out, nil
}

// path drops the root struct name from the namespace.
func path(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "glob":
		return fmt.Sprintf("%q is not a valid pattern", fe.Value())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " entries"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// ManifestValidator implements ports.ManifestValidator.
type ManifestValidator struct{}

// NewManifestValidator creates a new validator.
func NewManifestValidator() ports.ManifestValidator {
	return ManifestValidator{}
}

// Validate reports every invalid field of the manifest.
func (ManifestValidator) Validate(manifest *entities.ModuleManifest) (*entities.ValidationResult, error) {
	if manifest == nil {
		return nil, errors.New("manifest is nil")
	}

	errs, err := check(manifest)
	if err != nil {
		return nil, err
	}
	return &entities.ValidationResult{Valid: len(errs) == 0, Errors: errs}, nil
}
