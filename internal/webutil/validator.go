// internal/webutil/validator.go
package webutil

import (
	"errors"

	"menu_admin/internal/model"

	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
)

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	validate = validator.New()

	jaLocale := ja.New()
	uni := ut.New(jaLocale, jaLocale)
	trans, _ = uni.GetTranslator("ja")
	if err := ja_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(err)
	}
}

// ValidateStruct は validate タグに基づく検証を行い、
// 最初の違反を ErrInvalidInput をラップした AppError として返す。
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fe := validationErrors[0]
		return model.NewAppError("INVALID_INPUT", fe.Translate(trans), fe.Field(), model.ErrInvalidInput)
	}
	return model.NewAppError("INVALID_INPUT", "Validation failed.", "", model.ErrInvalidInput)
}
