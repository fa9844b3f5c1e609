package camp

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/campweek/core"
)

var (
	categoryTag  = "campcategory"
	categoryText = "{0} must be one of Sport, Horse, Dance, Music or General"

	weekIDTag  = "weekid"
	weekIDText = "{0} must only contain weeks 2 or 3"
)

// InitValidators registers the camp validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(categoryTag, categoryValidation)
	core.RegisterCustomTranslation(validate, translator, categoryTag, categoryText)

	_ = validate.RegisterValidation(weekIDTag, weekIDValidation)
	core.RegisterCustomTranslation(validate, translator, weekIDTag, weekIDText)
}

// Custom Validators

// categoryValidation only allows categories that can be stored on a Camp.
func categoryValidation(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(Category); ok {
		return c.IsStored()
	}
	return Category(fl.Field().String()).IsStored()
}

// weekIDValidation only allows the bookable weeks.
func weekIDValidation(fl validator.FieldLevel) bool {
	if w, ok := fl.Field().Interface().(WeekID); ok {
		return w.IsValid()
	}
	return WeekID(fl.Field().Int()).IsValid()
}
