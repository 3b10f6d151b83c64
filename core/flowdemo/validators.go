package flowdemo

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-landing/core"
)

var (
	personaTag  = "persona"
	personaText = "{0} must be one of student, teacher, parent or admin"
)

// RegisterValidators adds the flow demo validation tags to validate.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(personaTag, personaValidation)
	core.RegisterCustomTranslation(validate, translator, personaTag, personaText)
}

func personaValidation(fl validator.FieldLevel) bool {
	_, ok := ParsePersona(fl.Field().String())
	return ok
}
