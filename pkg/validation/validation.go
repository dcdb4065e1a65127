// Package validation wires validator/v10 with English translations so that
// field errors can be returned to API clients as readable messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var letterGradePattern = regexp.MustCompile(`^[A-Za-z][+-]?$`)

// Validator bundles the validate engine with its translator.
type Validator struct {
	engine *validator.Validate
	trans  ut.Translator
}

// New builds a Validator using JSON field names and English messages.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("letter_grade", func(fl validator.FieldLevel) bool {
		return letterGradePattern.MatchString(fl.Field().String())
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)
	_ = v.RegisterTranslation("letter_grade", trans, func(t ut.Translator) error {
		return t.Add("letter_grade", "{0} must be a letter optionally followed by + or -", true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		msg, _ := t.T("letter_grade", fe.Field())
		return msg
	})

	return &Validator{engine: v, trans: trans}
}

// Struct validates a struct using its validate tags.
func (v *Validator) Struct(s interface{}) error {
	return v.engine.Struct(s)
}

// Translate converts a validation error into a field -> message map.
// Errors that are not validation errors are reported under "detail".
func (v *Validator) Translate(err error) map[string]string {
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(v.trans)
		}
		return fields
	}
	fields["detail"] = err.Error()
	return fields
}
