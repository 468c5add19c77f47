package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skillup_backend/internal/email"
	"skillup_backend/internal/logger"
	"skillup_backend/internal/models"
	"skillup_backend/internal/money"
)

// NotificationService отправляет письма по принципу fire-and-forget:
// ошибки только логируются и никогда не возвращаются вызывающему.
type NotificationService interface {
	SendPaymentReceipt(ctx context.Context, user *models.User, amountMinor int64, currency, orderID, paymentID string)
	SendCourseWelcome(ctx context.Context, user *models.User, course *models.Course)
	SendCartReminder(ctx context.Context, user *models.User, cart *models.AbandonedCart)
	// Wait дожидается писем, отправляемых в фоне
	Wait()
}

type NotificationServiceImpl struct {
	provider email.Provider
	async    bool
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewNotificationService(provider email.Provider, async bool) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		provider: provider,
		async:    async,
		timeout:  30 * time.Second,
	}
}

func (s *NotificationServiceImpl) SendPaymentReceipt(ctx context.Context, user *models.User, amountMinor int64, currency, orderID, paymentID string) {
	data := email.TemplateData{
		"Name":      user.FullName(),
		"Amount":    money.Label(amountMinor, currency),
		"OrderID":   orderID,
		"PaymentID": paymentID,
	}
	s.dispatch(ctx, "payment_receipt", user.Email, "Payment Received", email.TemplatePaymentReceipt, data)
}

func (s *NotificationServiceImpl) SendCourseWelcome(ctx context.Context, user *models.User, course *models.Course) {
	data := email.TemplateData{
		"Name":       user.FullName(),
		"CourseName": course.Title,
	}
	subject := fmt.Sprintf("Successfully Enrolled into %s", course.Title)
	s.dispatch(ctx, "course_welcome", user.Email, subject, email.TemplateCourseWelcome, data)
}

func (s *NotificationServiceImpl) SendCartReminder(ctx context.Context, user *models.User, cart *models.AbandonedCart) {
	data := email.TemplateData{
		"Name":    user.FullName(),
		"Courses": []models.AbandonedCourse(cart.Items),
	}
	s.dispatch(ctx, "cart_reminder", user.Email, "You left something in your cart", email.TemplateCartReminder, data)
}

func (s *NotificationServiceImpl) Wait() {
	s.wg.Wait()
}

func (s *NotificationServiceImpl) dispatch(ctx context.Context, kind, to, subject, templateName string, data email.TemplateData) {
	if to == "" {
		logger.CtxWarn(ctx, "Skipping email: recipient has no address", "kind", kind)
		return
	}

	send := func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := s.provider.SendTemplate(ctx, []string{to}, subject, templateName, data); err != nil {
			logger.CtxWithError(ctx, "Failed to send email", err, "kind", kind, "to", to)
			return
		}
		logger.CtxInfo(ctx, "Email sent", "kind", kind, "to", to)
	}

	if !s.async {
		send(ctx)
		return
	}

	// письмо не должно отменяться вместе с HTTP-запросом
	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		send(detached)
	}()
}
