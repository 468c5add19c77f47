package services

import (
	"skillup_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	CatalogService      CatalogService
	PaymentService      PaymentService
	EnrollmentService   EnrollmentService
	NotificationService NotificationService
	AbandonmentService  AbandonmentService
	EmailProvider       email.Provider
}
