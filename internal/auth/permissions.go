package auth

import "skillup_backend/internal/models"

// Разрешения по типу аккаунта
const (
	PermPurchaseCourses = "courses:purchase"
	PermViewOwnCourses  = "courses:read:self"
	PermTrackCart       = "cart:write:self"
	PermManageCourses   = "courses:write"
)

// Permissions список разрешений
var Permissions = map[models.AccountType][]string{
	models.AccountTypeStudent: {
		PermPurchaseCourses,
		PermViewOwnCourses,
		PermTrackCart,
	},
	models.AccountTypeInstructor: {
		PermViewOwnCourses,
		PermManageCourses,
	},
	models.AccountTypeAdmin: {
		PermViewOwnCourses,
		PermManageCourses,
	},
}

// HasPermission проверяет есть ли у типа аккаунта указанное разрешение
func HasPermission(accountType models.AccountType, permission string) bool {
	permissions, exists := Permissions[accountType]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
