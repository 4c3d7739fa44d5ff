package server

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type requestValidator struct {
	validate *validator.Validate
}

// newValidator настраивает go-playground/validator: в сообщениях об ошибках
// поля называются именами из json-тегов, как их видит клиент.
func newValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &requestValidator{validate: v}
}

// Validate проверяет структуру по тегам и возвращает читаемую ошибку
// по первому непрошедшему полю.
func (v *requestValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		if first.Param() != "" {
			return fmt.Errorf("field %q fails %q=%s", first.Field(), first.Tag(), first.Param())
		}
		return fmt.Errorf("field %q fails %q", first.Field(), first.Tag())
	}

	return err
}
