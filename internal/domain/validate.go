package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks v's `validate` tags and returns the first failure
// as an *ErrValidation, or nil.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ErrValidation{Message: err.Error()}
	}
	fe := verrs[0]
	return &ErrValidation{Field: fe.Field(), Message: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "email":
		return "E-mail inválido."
	case "min":
		return fmt.Sprintf("Deve ter no mínimo %s.", fe.Param())
	case "len":
		return fmt.Sprintf("Deve ter exatamente %s caracteres.", fe.Param())
	case "eqfield":
		return "As senhas não coincidem."
	case "oneof":
		return fmt.Sprintf("Valor inválido. Use um de: %s.", fe.Param())
	case "gte":
		return fmt.Sprintf("Deve ser maior ou igual a %s.", fe.Param())
	}
	return fmt.Sprintf("Falhou na regra %q.", fe.Tag())
}
