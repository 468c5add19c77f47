package models

type AccountType string
type PaymentStatus string
type EnrollmentOutcome string

const (
	AccountTypeStudent    AccountType = "Student"
	AccountTypeInstructor AccountType = "Instructor"
	AccountTypeAdmin      AccountType = "Admin"

	// Статусы записи в журнале обработанных платежей
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusEnrolled   PaymentStatus = "enrolled"
	PaymentStatusPartial    PaymentStatus = "partial"
	PaymentStatusFailed     PaymentStatus = "failed"

	EnrollmentOutcomeEnrolled        EnrollmentOutcome = "enrolled"
	EnrollmentOutcomeAlreadyEnrolled EnrollmentOutcome = "already_enrolled"
	EnrollmentOutcomeFailed          EnrollmentOutcome = "failed"
)

func (a AccountType) IsValid() bool {
	switch a {
	case AccountTypeStudent, AccountTypeInstructor, AccountTypeAdmin:
		return true
	}
	return false
}
