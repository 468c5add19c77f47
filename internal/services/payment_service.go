package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillup_backend/internal/cache"
	"skillup_backend/internal/events"
	"skillup_backend/internal/logger"
	"skillup_backend/internal/models"
	"skillup_backend/internal/money"
	"skillup_backend/internal/repositories"
	"skillup_backend/internal/services/dto"
	"skillup_backend/internal/services/gateway"
	"skillup_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultCurrency = "INR"

type PaymentService interface {
	CapturePayment(ctx context.Context, db *gorm.DB, userID string, courseIDs []string) (*dto.CapturePaymentResponse, error)
	VerifyPayment(ctx context.Context, db *gorm.DB, userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error)
	SendPaymentSuccessEmail(ctx context.Context, db *gorm.DB, userID string, req *dto.SendPaymentEmailRequest) error
	GetEnrolledCourses(ctx context.Context, db *gorm.DB, userID string) ([]dto.EnrolledCourseResponse, error)
}

type PaymentServiceConfig struct {
	Currency string
	OrderTTL time.Duration
	// StaleAfter - через сколько запись в processing считается брошенной и повтор колбэка доводит запись до конца
	StaleAfter time.Duration
}

type PaymentServiceImpl struct {
	catalog      CatalogService
	enrollment   EnrollmentService
	abandonment  AbandonmentService
	notifier     NotificationService
	gateway      gateway.Gateway
	orders       cache.OrderCache
	publisher    events.Publisher
	paymentRepo  repositories.PaymentRepository
	userRepo     repositories.UserRepository
	courseRepo   repositories.CourseRepository
	progressRepo repositories.ProgressRepository
	cfg          PaymentServiceConfig
}

func NewPaymentService(
	catalog CatalogService,
	enrollment EnrollmentService,
	abandonment AbandonmentService,
	notifier NotificationService,
	gw gateway.Gateway,
	orders cache.OrderCache,
	publisher events.Publisher,
	paymentRepo repositories.PaymentRepository,
	userRepo repositories.UserRepository,
	courseRepo repositories.CourseRepository,
	progressRepo repositories.ProgressRepository,
	cfg PaymentServiceConfig,
) PaymentService {
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}
	if cfg.OrderTTL <= 0 {
		cfg.OrderTTL = 30 * time.Minute
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 2 * time.Minute
	}
	return &PaymentServiceImpl{
		catalog:      catalog,
		enrollment:   enrollment,
		abandonment:  abandonment,
		notifier:     notifier,
		gateway:      gw,
		orders:       orders,
		publisher:    publisher,
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		progressRepo: progressRepo,
		cfg:          cfg,
	}
}

// ==========================
// Capture
// ==========================

// CapturePayment проверяет корзину и создает заказ в шлюзе. В SQL ничего не пишется.
func (s *PaymentServiceImpl) CapturePayment(ctx context.Context, db *gorm.DB, userID string, courseIDs []string) (*dto.CapturePaymentResponse, error) {
	ids := UniqueIDs(courseIDs)
	if len(ids) == 0 {
		return nil, apperrors.ErrInvalidRequest("Please provide at least one course", map[string]interface{}{"missing": []string{"courses"}})
	}

	courses, err := s.catalog.GetCourses(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	owned, err := s.catalog.EnrolledAmong(ctx, db, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(owned) > 0 {
		logger.CtxWarn(ctx, "Checkout rejected: already enrolled", "courses", owned)
		return nil, apperrors.ErrAlreadyEnrolled(owned)
	}

	prices := make([]int64, 0, len(courses))
	for _, c := range courses {
		prices = append(prices, c.Price)
	}
	amount := money.SumMinor(prices)

	order, err := s.gateway.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   amount,
		Currency: s.cfg.Currency,
		Receipt:  newReceiptID(),
		Notes:    map[string]string{"userId": userID},
	})
	if err != nil {
		logger.CtxWithError(ctx, "Gateway order creation failed", err, "amount", amount)
		return nil, apperrors.ErrGatewayUnavailable(err)
	}

	binding := cache.OrderBinding{
		OrderID:   order.ID,
		UserID:    userID,
		CourseIDs: ids,
		Amount:    amount,
		Currency:  s.cfg.Currency,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.orders.Save(ctx, binding, s.cfg.OrderTTL); err != nil {
		logger.CtxWarn(ctx, "Failed to cache order binding", "order_id", order.ID, "error", err.Error())
	}

	logger.CtxInfo(ctx, "Order created", "order_id", order.ID, "amount", amount, "courses", len(ids))
	return &dto.CapturePaymentResponse{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// ==========================
// Verify
// ==========================

// VerifyPayment проверяет подпись, резервирует платеж в журнале и записывает студента на курсы.
// Повторный колбэк с тем же payment id возвращает прежний результат без повторной записи.
func (s *PaymentServiceImpl) VerifyPayment(ctx context.Context, db *gorm.DB, userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	if missing := missingVerifyFields(userID, req); len(missing) > 0 {
		return nil, apperrors.ErrMissingFields(missing...)
	}
	courseIDs := UniqueIDs(req.Courses)
	ctx = logger.WithPayment(ctx, req.OrderID, req.PaymentID)

	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		logger.CtxWarn(ctx, "Payment signature mismatch",
			"computed", s.gateway.Signature(req.OrderID, req.PaymentID),
			"received", req.Signature,
		)
		return nil, apperrors.ErrSignatureInvalid
	}

	binding, err := s.orders.Get(ctx, req.OrderID)
	switch {
	case err == nil:
		if binding.UserID != userID || !binding.MatchesCourses(courseIDs) {
			logger.CtxWarn(ctx, "Callback does not match cached order")
			return nil, apperrors.ErrOrderMismatch
		}
	case errors.Is(err, cache.ErrBindingNotFound):
		binding = nil
	default:
		logger.CtxWarn(ctx, "Order cache unavailable, relying on signature", "error", err.Error())
		binding = nil
	}

	amount, err := s.resolveAmount(ctx, db, binding, courseIDs)
	if err != nil {
		return nil, err
	}

	entry := &models.ProcessedPayment{
		PaymentID: req.PaymentID,
		OrderID:   req.OrderID,
		UserID:    userID,
		Amount:    amount,
		Currency:  s.cfg.Currency,
		CourseIDs: datatypes.JSONSlice[string](courseIDs),
		Status:    models.PaymentStatusProcessing,
	}
	reserved, err := s.paymentRepo.Reserve(ctx, db, entry)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if !reserved {
		return s.replayOutcome(ctx, db, userID, req)
	}

	return s.settle(ctx, db, entry, false)
}

// settle записывает студента на курсы из журнала и фиксирует итог.
// Любая ошибка записи после верной подписи отдается как ENROLLMENT_FAILED.
func (s *PaymentServiceImpl) settle(ctx context.Context, db *gorm.DB, entry *models.ProcessedPayment, resumed bool) (*dto.VerifyPaymentResponse, error) {
	courseIDs := []string(entry.CourseIDs)

	report, err := s.enrollment.EnrollStudent(ctx, db, entry.UserID, courseIDs)
	if err != nil {
		logger.CtxWithError(ctx, "Enrollment aborted after verified payment", err)
		if uerr := s.paymentRepo.UpdateStatus(ctx, db, entry.PaymentID, models.PaymentStatusFailed); uerr != nil {
			logger.CtxWithError(ctx, "Failed to update ledger status", uerr)
		}
		return nil, apperrors.ErrEnrollmentFailed(err, map[string]interface{}{
			"paymentId": entry.PaymentID,
			"status":    models.PaymentStatusFailed,
		})
	}

	status := report.Status()
	if err := s.paymentRepo.UpdateStatus(ctx, db, entry.PaymentID, status); err != nil {
		logger.CtxWithError(ctx, "Failed to update ledger status", err)
	}

	if err := s.orders.Delete(ctx, entry.OrderID); err != nil {
		logger.CtxWithError(ctx, "Failed to drop order binding", err)
	}
	s.abandonment.CancelReminder(ctx, db, entry.UserID)
	s.publishVerified(ctx, entry, status, report)

	if report.HasFailures() {
		return nil, apperrors.ErrEnrollmentFailed(nil, report)
	}

	logger.CtxInfo(ctx, "Payment verified", "status", status, "resumed", resumed)
	return &dto.VerifyPaymentResponse{
		PaymentID: entry.PaymentID,
		OrderID:   entry.OrderID,
		Status:    status,
		Report:    report,
	}, nil
}

// resolveAmount - сумма из привязки заказа, иначе пересчет по текущим ценам найденных курсов
func (s *PaymentServiceImpl) resolveAmount(ctx context.Context, db *gorm.DB, binding *cache.OrderBinding, courseIDs []string) (int64, error) {
	if binding != nil {
		return binding.Amount, nil
	}
	courses, err := s.courseRepo.FindByIDs(ctx, db, courseIDs)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	prices := make([]int64, 0, len(courses))
	for _, c := range courses {
		prices = append(prices, c.Price)
	}
	return money.SumMinor(prices), nil
}

func (s *PaymentServiceImpl) replayOutcome(ctx context.Context, db *gorm.DB, userID string, req *dto.VerifyPaymentRequest) (*dto.VerifyPaymentResponse, error) {
	existing, err := s.paymentRepo.FindByPaymentID(ctx, db, req.PaymentID)
	if errors.Is(err, repositories.ErrPaymentNotFound) {
		// журнал отверг вставку из-за order id: заказ уже оплачен другим платежом
		logger.CtxWarn(ctx, "Order already settled by another payment")
		return nil, apperrors.ErrOrderMismatch
	}
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	if existing.UserID != userID || existing.OrderID != req.OrderID {
		return nil, apperrors.ErrOrderMismatch
	}

	logger.CtxInfo(ctx, "Duplicate payment callback", "status", existing.Status)

	switch existing.Status {
	case models.PaymentStatusProcessing:
		// запись могла остаться от упавшего запроса: после StaleAfter ее доводит первый забравший повтор
		claimed, err := s.paymentRepo.ReclaimStale(ctx, db, existing.PaymentID, time.Now().Add(-s.cfg.StaleAfter))
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		if !claimed {
			return nil, apperrors.ErrPaymentInProgress
		}
		logger.CtxWarn(ctx, "Resuming stale payment", "since", existing.UpdatedAt)
		return s.settle(ctx, db, existing, true)
	case models.PaymentStatusPartial, models.PaymentStatusFailed:
		return nil, apperrors.ErrEnrollmentFailed(nil, map[string]interface{}{
			"paymentId": existing.PaymentID,
			"status":    existing.Status,
			"replayed":  true,
		})
	}
	return &dto.VerifyPaymentResponse{
		PaymentID: existing.PaymentID,
		OrderID:   existing.OrderID,
		Status:    existing.Status,
		Replayed:  true,
	}, nil
}

func (s *PaymentServiceImpl) publishVerified(ctx context.Context, entry *models.ProcessedPayment, status models.PaymentStatus, report *dto.EnrollmentReport) {
	err := s.publisher.Publish(ctx, events.Event{
		Type: events.TypePaymentVerified,
		Key:  entry.UserID,
		Payload: map[string]interface{}{
			"paymentId": entry.PaymentID,
			"orderId":   entry.OrderID,
			"userId":    entry.UserID,
			"amount":    entry.Amount,
			"currency":  entry.Currency,
			"status":    status,
			"report":    report,
		},
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to publish payment event", err, "payment_id", entry.PaymentID)
	}
}

// ==========================
// Receipt
// ==========================

// SendPaymentSuccessEmail отправляет чек один раз на проверенный платеж.
// Сумма берется из журнала; клиентская только сверяется.
func (s *PaymentServiceImpl) SendPaymentSuccessEmail(ctx context.Context, db *gorm.DB, userID string, req *dto.SendPaymentEmailRequest) error {
	var missing []string
	if strings.TrimSpace(req.OrderID) == "" {
		missing = append(missing, "orderId")
	}
	if strings.TrimSpace(req.PaymentID) == "" {
		missing = append(missing, "paymentId")
	}
	if strings.TrimSpace(userID) == "" {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return apperrors.ErrMissingFields(missing...)
	}

	entry, err := s.paymentRepo.FindByPaymentID(ctx, db, req.PaymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return apperrors.ErrPaymentNotVerified
		}
		return apperrors.DatabaseError(err)
	}
	if entry.UserID != userID || entry.OrderID != req.OrderID {
		return apperrors.ErrOrderMismatch
	}
	if req.Amount != 0 && req.Amount != entry.Amount {
		logger.CtxWarn(ctx, "Client receipt amount differs from ledger", "client", req.Amount, "ledger", entry.Amount)
	}

	user, err := s.userRepo.FindByID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.DatabaseError(err)
	}

	claimed, err := s.paymentRepo.MarkReceiptSent(ctx, db, req.PaymentID)
	if err != nil {
		return apperrors.DatabaseError(err)
	}
	if !claimed {
		logger.CtxInfo(ctx, "Receipt already sent", "payment_id", req.PaymentID)
		return nil
	}

	s.notifier.SendPaymentReceipt(ctx, user, entry.Amount, entry.Currency, entry.OrderID, entry.PaymentID)
	return nil
}

// ==========================
// Enrolled courses
// ==========================

func (s *PaymentServiceImpl) GetEnrolledCourses(ctx context.Context, db *gorm.DB, userID string) ([]dto.EnrolledCourseResponse, error) {
	courses, err := s.userRepo.FindOwnedCourses(ctx, db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	progress, err := s.progressRepo.FindByUser(ctx, db, userID)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	byCourse := make(map[string]models.CourseProgress, len(progress))
	for _, p := range progress {
		byCourse[p.CourseID] = p
	}

	result := make([]dto.EnrolledCourseResponse, 0, len(courses))
	for _, c := range courses {
		item := dto.EnrolledCourseResponse{
			ID:          c.ID,
			CourseName:  c.Title,
			Description: c.Description,
			Thumbnail:   c.Thumbnail,
			Price:       c.Price,
			Progress:    dto.CourseProgressDTO{CompletedVideos: []string{}},
		}
		if p, ok := byCourse[c.ID]; ok {
			item.EnrolledAt = p.CreatedAt
			if p.CompletedVideos != nil {
				item.Progress.CompletedVideos = []string(p.CompletedVideos)
			}
			item.Progress.CompletedCount = len(p.CompletedVideos)
		}
		result = append(result, item)
	}
	return result, nil
}

func missingVerifyFields(userID string, req *dto.VerifyPaymentRequest) []string {
	var missing []string
	if strings.TrimSpace(req.OrderID) == "" {
		missing = append(missing, "razorpay_order_id")
	}
	if strings.TrimSpace(req.PaymentID) == "" {
		missing = append(missing, "razorpay_payment_id")
	}
	if strings.TrimSpace(req.Signature) == "" {
		missing = append(missing, "razorpay_signature")
	}
	if len(UniqueIDs(req.Courses)) == 0 {
		missing = append(missing, "courses")
	}
	if strings.TrimSpace(userID) == "" {
		missing = append(missing, "userId")
	}
	return missing
}

// newReceiptID - rcpt_<uuid>, не длиннее лимита шлюза
func newReceiptID() string {
	id := "rcpt_" + uuid.NewString()
	if len(id) > gateway.MaxReceiptLength {
		id = id[:gateway.MaxReceiptLength]
	}
	return id
}
