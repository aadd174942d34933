package validator

import (
	"strings"

	apperrors "github.com/fuelstation-microservice/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate - валидация структуры. Ошибки валидации транслируются в AppError
// с указанием первого невалидного поля, чтобы хендлеры отдавали 400, а не 500.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return apperrors.ErrInvalidRequest
	}

	first := validationErrs[0]
	return apperrors.ErrInvalidRequest.WithField(
		strings.ToLower(first.Field()),
		"failed validation: "+first.Tag(),
	)
}

// GetValidator - получить валидатор для кастомной конфигурации
func GetValidator() *validator.Validate {
	return validate
}
