package onboarding

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/orientame/onboarding-api/internal/models"
)

// Messages shown next to an invalid control, keyed by field then by the
// failing validation tag.
var fieldMessages = map[string]map[string]string{
	models.FieldPosition: {
		"catalog_position": "Debes seleccionar un cargo",
	},
	models.FieldEmail: {
		"notblank":  "El correo es obligatorio",
		"weakemail": "Ingresa un correo válido",
	},
	models.FieldRegion: {
		"catalog_region": "Debes seleccionar una región",
	},
	models.FieldCommune: {
		"notblank": "La comuna es obligatoria",
	},
	models.FieldSchool: {
		"notblank": "El colegio es obligatorio",
	},
}

const fallbackMessage = "Campo inválido"

// Validator checks counselor form values. Every rule runs on every call.
type Validator struct {
	validate *validator.Validate
	catalog  *Catalog
}

// NewValidator builds a validator whose option checks use catalog
func NewValidator(catalog *Catalog) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("weakemail", func(fl validator.FieldLevel) bool {
		return IsLooseEmail(fl.Field().String())
	})
	_ = v.RegisterValidation("catalog_position", func(fl validator.FieldLevel) bool {
		return catalog.HasPosition(fl.Field().String())
	})
	_ = v.RegisterValidation("catalog_region", func(fl validator.FieldLevel) bool {
		return catalog.HasRegion(fl.Field().String())
	})

	return &Validator{validate: v, catalog: catalog}
}

// Catalog returns the option catalog the validator checks against
func (v *Validator) Catalog() *Catalog {
	return v.catalog
}

// Validate returns one message per failing field. An empty map means the
// values can be submitted.
func (v *Validator) Validate(fields models.CounselorFields) models.ValidationErrors {
	result := models.ValidationErrors{}

	err := v.validate.Struct(fields)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Struct() only returns InvalidValidationError for non-struct input.
		return result
	}

	for _, fe := range fieldErrs {
		result[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return result
}

func messageFor(field, tag string) string {
	if byTag, ok := fieldMessages[field]; ok {
		if msg, ok := byTag[tag]; ok {
			return msg
		}
	}
	return fallbackMessage
}

// IsLooseEmail accepts any value containing both "@" and ".". It does not
// check their order or anything else.
func IsLooseEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
