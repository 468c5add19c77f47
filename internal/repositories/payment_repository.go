package repositories

import (
	"context"
	"errors"
	"time"

	"skillup_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPaymentNotFound = errors.New("processed payment not found")
)

type PaymentRepository interface {
	Reserve(ctx context.Context, db *gorm.DB, payment *models.ProcessedPayment) (bool, error)
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*models.ProcessedPayment, error)
	FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*models.ProcessedPayment, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, paymentID string, status models.PaymentStatus) error
	ReclaimStale(ctx context.Context, db *gorm.DB, paymentID string, staleBefore time.Time) (bool, error)
	MarkReceiptSent(ctx context.Context, db *gorm.DB, paymentID string) (bool, error)
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

// Reserve вставляет запись в журнал, если платежа там еще нет.
// false означает повторный колбэк: запись уже существует.
func (r *PaymentRepositoryImpl) Reserve(ctx context.Context, db *gorm.DB, payment *models.ProcessedPayment) (bool, error) {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(payment)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentRepositoryImpl) FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID string) (*models.ProcessedPayment, error) {
	var payment models.ProcessedPayment
	err := db.WithContext(ctx).First(&payment, "payment_id = ?", paymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*models.ProcessedPayment, error) {
	var payment models.ProcessedPayment
	err := db.WithContext(ctx).First(&payment, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *PaymentRepositoryImpl) UpdateStatus(ctx context.Context, db *gorm.DB, paymentID string, status models.PaymentStatus) error {
	result := db.WithContext(ctx).
		Model(&models.ProcessedPayment{}).
		Where("payment_id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// ReclaimStale забирает запись, застрявшую в processing с момента staleBefore и раньше.
// Обновление условное: из двух одновременных повторов запись получит только один.
func (r *PaymentRepositoryImpl) ReclaimStale(ctx context.Context, db *gorm.DB, paymentID string, staleBefore time.Time) (bool, error) {
	result := db.WithContext(ctx).
		Model(&models.ProcessedPayment{}).
		Where("payment_id = ? AND status = ? AND updated_at <= ?", paymentID, models.PaymentStatusProcessing, staleBefore).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkReceiptSent переключает флаг только один раз; true - вызывающий первым занял отправку чека
func (r *PaymentRepositoryImpl) MarkReceiptSent(ctx context.Context, db *gorm.DB, paymentID string) (bool, error) {
	result := db.WithContext(ctx).
		Model(&models.ProcessedPayment{}).
		Where("payment_id = ? AND receipt_sent = ?", paymentID, false).
		Updates(map[string]interface{}{
			"receipt_sent": true,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
