package validator

import (
	"log"
	"strings"
	"unicode"

	"skillup_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// приложение не должно стартовать без правил
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'course-id': непустой идентификатор без пробелов
	mustRegister("course-id", validateCourseID)

	// 'is-account-type': Student / Instructor / Admin
	mustRegister("is-account-type", validateAccountType)
}

func validateCourseID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.TrimSpace(value) == "" || len(value) > 64 {
		return false
	}
	return strings.IndexFunc(value, unicode.IsSpace) == -1
}

func validateAccountType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // для этого есть 'required'
	}
	return models.AccountType(value).IsValid()
}
