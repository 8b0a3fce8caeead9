package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// formValidator はフォーム入力の検証器。エラーメッセージは英語で返す。
type formValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newFormValidator() *formValidator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// エラーにはフォームのフィールド名を使う
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &formValidator{validate: v, translator: trans}
}

// Check は構造体を検証し、最初の違反をメッセージとして返す。違反が無ければ空文字。
func (f *formValidator) Check(form any) string {
	err := f.validate.Struct(form)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Translate(f.translator)
	}
	return err.Error()
}

// roleForm はロール選択フォーム。
type roleForm struct {
	Role string `form:"role" validate:"required,oneof=student professor"`
}

// profileForm はプロフィール編集フォーム。
type profileForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Bio         string `form:"bio" validate:"max=1000"`
	Department  string `form:"department" validate:"max=100"`
	Phone       string `form:"phone" validate:"max=30"`
	NotifyEmail bool   `form:"notify_email"`
	NotifyPush  bool   `form:"notify_push"`
	Tab         string `form:"tab" validate:"omitempty,oneof=personal account notifications"`
}

// chatForm はチャット送信フォーム。
type chatForm struct {
	Message string `form:"message" validate:"required,max=4000"`
}
