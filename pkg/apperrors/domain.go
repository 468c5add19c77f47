package apperrors

import (
	"fmt"
	"net/http"
	"strings"
)

// =========================================================================
// Фабричные ФУНКЦИИ
// =========================================================================

// ErrInvalidRequest - отсутствующие или некорректные поля запроса (400)
func ErrInvalidRequest(message string, details interface{}) *AppError {
	return New(CodeInvalidRequest, "request", message, http.StatusBadRequest).WithDetails(details)
}

// ErrMissingFields перечисляет отсутствующие поля в сообщении и в details
func ErrMissingFields(fields ...string) *AppError {
	return ErrInvalidRequest(
		fmt.Sprintf("Missing required fields: %s", strings.Join(fields, ", ")),
		map[string]interface{}{"missing": fields},
	)
}

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrCoursesNotFound называет курсы, которых нет в каталоге
func ErrCoursesNotFound(courseIDs []string) *AppError {
	return New(CodeNotFound, "course",
		fmt.Sprintf("Course not found: %s", strings.Join(courseIDs, ", ")),
		http.StatusNotFound,
	).WithDetails(map[string]interface{}{"courses": courseIDs})
}

// ErrAlreadyEnrolled называет курсы, которые пользователь уже купил (409)
func ErrAlreadyEnrolled(courseIDs []string) *AppError {
	return New(CodeAlreadyEnrolled, "enrollment",
		fmt.Sprintf("Student is already enrolled in: %s", strings.Join(courseIDs, ", ")),
		http.StatusConflict,
	).WithDetails(map[string]interface{}{"courses": courseIDs})
}

// ErrGatewayUnavailable - внешний платежный шлюз не ответил (500)
func ErrGatewayUnavailable(err error) *AppError {
	return Wrap(err, CodeGatewayUnavailable, "payment", "Could not initiate order", http.StatusInternalServerError)
}

// ErrEnrollmentFailed - подпись верна, но запись хотя бы на один курс не удалась (500)
func ErrEnrollmentFailed(err error, report interface{}) *AppError {
	return Wrap(err, CodeEnrollmentFailed, "enrollment",
		"Payment verified but enrollment did not complete", http.StatusInternalServerError,
	).WithDetails(report)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ
// =========================================================================

// ErrSignatureInvalid - подпись колбэка не совпала. Терминальная ошибка, повтор не поможет.
var ErrSignatureInvalid = New(
	CodeSignatureInvalid,
	"payment",
	"Payment signature verification failed",
	http.StatusBadRequest,
)

// ErrOrderMismatch - колбэк ссылается на заказ другого пользователя или другой набор курсов.
var ErrOrderMismatch = New(
	CodeInvalidRequest,
	"payment",
	"Payment does not match the order it claims",
	http.StatusBadRequest,
)

// ErrPaymentInProgress - тот же платеж сейчас обрабатывается другим запросом. Колбэк можно повторить.
var ErrPaymentInProgress = New(
	CodePaymentInProgress,
	"payment",
	"Payment is still being processed, retry later",
	http.StatusConflict,
)

// ErrPaymentNotVerified - чек запрошен для платежа, который не проходил проверку.
var ErrPaymentNotVerified = New(
	CodeNotFound,
	"payment",
	"No verified payment found for this order",
	http.StatusNotFound,
)

// ErrUserNotFound - пользователь не найден.
var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

// ErrInsufficientPermissions - тип аккаунта не подходит для операции.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidToken - неверный или просроченный токен.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrTooManyRequests - превышен лимит запросов.
var ErrTooManyRequests = New(
	CodeRateLimited,
	"request",
	"Too many requests",
	http.StatusTooManyRequests,
)
