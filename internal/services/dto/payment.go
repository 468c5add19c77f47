package dto

import (
	"time"

	"skillup_backend/internal/models"
)

// =======================
// Checkout DTOs
// =======================

type CapturePaymentRequest struct {
	Courses []string `json:"courses" validate:"required,min=1,dive,course-id"`
}

// CapturePaymentResponse - все, что нужно клиенту, чтобы открыть окно оплаты
type CapturePaymentResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// VerifyPaymentRequest - колбэк клиента после оплаты. Обязательность полей
// проверяет сервис, чтобы назвать все отсутствующие поля в одном ответе.
type VerifyPaymentRequest struct {
	OrderID   string   `json:"razorpay_order_id"`
	PaymentID string   `json:"razorpay_payment_id"`
	Signature string   `json:"razorpay_signature"`
	Courses   []string `json:"courses" validate:"omitempty,dive,course-id"`
}

type VerifyPaymentResponse struct {
	PaymentID string               `json:"paymentId"`
	OrderID   string               `json:"orderId"`
	Status    models.PaymentStatus `json:"status"`
	Replayed  bool                 `json:"replayed"`
	Report    *EnrollmentReport    `json:"report,omitempty"`
}

type SendPaymentEmailRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Amount    int64  `json:"amount" validate:"omitempty,min=0"`
}

// =======================
// Enrollment DTOs
// =======================

type CourseEnrollmentResult struct {
	CourseID string                   `json:"courseId"`
	Outcome  models.EnrollmentOutcome `json:"outcome"`
	Reason   string                   `json:"reason,omitempty"`
}

// EnrollmentReport - итог записи по каждому курсу отдельно
type EnrollmentReport struct {
	UserID  string                   `json:"userId"`
	Courses []CourseEnrollmentResult `json:"courses"`
}

func (r *EnrollmentReport) add(courseID string, outcome models.EnrollmentOutcome, reason string) {
	r.Courses = append(r.Courses, CourseEnrollmentResult{CourseID: courseID, Outcome: outcome, Reason: reason})
}

func (r *EnrollmentReport) AddEnrolled(courseID string) {
	r.add(courseID, models.EnrollmentOutcomeEnrolled, "")
}

func (r *EnrollmentReport) AddAlreadyEnrolled(courseID string) {
	r.add(courseID, models.EnrollmentOutcomeAlreadyEnrolled, "")
}

func (r *EnrollmentReport) AddFailed(courseID, reason string) {
	r.add(courseID, models.EnrollmentOutcomeFailed, reason)
}

func (r *EnrollmentReport) FailedCount() int {
	n := 0
	for _, c := range r.Courses {
		if c.Outcome == models.EnrollmentOutcomeFailed {
			n++
		}
	}
	return n
}

func (r *EnrollmentReport) HasFailures() bool {
	return r.FailedCount() > 0
}

// Status сворачивает отчет в статус журнала платежей
func (r *EnrollmentReport) Status() models.PaymentStatus {
	failed := r.FailedCount()
	switch {
	case failed == 0:
		return models.PaymentStatusEnrolled
	case failed == len(r.Courses):
		return models.PaymentStatusFailed
	default:
		return models.PaymentStatusPartial
	}
}

// =======================
// Abandonment DTOs
// =======================

type AbandonedItem struct {
	CourseID   string `json:"courseId" validate:"required,course-id"`
	CourseName string `json:"courseName" validate:"required"`
	Price      int64  `json:"price" validate:"min=0"`
	Thumbnail  string `json:"thumbnail"`
}

// TrackAbandonmentRequest - курс со страницы оплаты и, опционально, остальные курсы корзины
type TrackAbandonmentRequest struct {
	CourseID   string          `json:"courseId"`
	CourseName string          `json:"courseName"`
	Price      int64           `json:"price" validate:"min=0"`
	Thumbnail  string          `json:"thumbnail"`
	Extra      []AbandonedItem `json:"courses" validate:"omitempty,dive"`
}

// =======================
// Enrolled courses
// =======================

type CourseProgressDTO struct {
	CompletedVideos []string `json:"completedVideos"`
	CompletedCount  int      `json:"completedCount"`
}

type EnrolledCourseResponse struct {
	ID          string            `json:"id"`
	CourseName  string            `json:"courseName"`
	Description string            `json:"courseDescription"`
	Thumbnail   string            `json:"thumbnail"`
	Price       int64             `json:"price"`
	EnrolledAt  time.Time         `json:"enrolledAt"`
	Progress    CourseProgressDTO `json:"courseProgress"`
}
