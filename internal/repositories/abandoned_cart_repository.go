package repositories

import (
	"context"
	"errors"
	"time"

	"skillup_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound = errors.New("abandoned cart not found")
)

type AbandonedCartRepository interface {
	Overwrite(ctx context.Context, db *gorm.DB, userID string, items []models.AbandonedCourse, at time.Time) (*models.AbandonedCart, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID string) (*models.AbandonedCart, error)
	MarkReminderSent(ctx context.Context, db *gorm.DB, userID string, version int64) (bool, error)
	FindDue(ctx context.Context, db *gorm.DB, updatedBefore time.Time, limit int) ([]models.AbandonedCart, error)
}

type AbandonedCartRepositoryImpl struct{}

func NewAbandonedCartRepository() AbandonedCartRepository {
	return &AbandonedCartRepositoryImpl{}
}

// Overwrite заменяет снимок корзины целиком, сбрасывает флаг напоминания и поднимает версию
func (r *AbandonedCartRepositoryImpl) Overwrite(ctx context.Context, db *gorm.DB, userID string, items []models.AbandonedCourse, at time.Time) (*models.AbandonedCart, error) {
	var cart models.AbandonedCart

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&cart, "user_id = ?", userID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cart = models.AbandonedCart{
				UserID:      userID,
				Items:       datatypes.JSONSlice[models.AbandonedCourse](items),
				LastUpdated: at,
				Version:     1,
			}
			return tx.Create(&cart).Error
		case err != nil:
			return err
		}

		cart.Items = datatypes.JSONSlice[models.AbandonedCourse](items)
		cart.LastUpdated = at
		cart.ReminderSent = false
		cart.Version++

		return tx.Model(&models.AbandonedCart{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"items":         cart.Items,
				"last_updated":  cart.LastUpdated,
				"reminder_sent": false,
				"version":       cart.Version,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *AbandonedCartRepositoryImpl) FindByUser(ctx context.Context, db *gorm.DB, userID string) (*models.AbandonedCart, error) {
	var cart models.AbandonedCart
	err := db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// MarkReminderSent ставит флаг только для указанной версии снимка и только один раз
func (r *AbandonedCartRepositoryImpl) MarkReminderSent(ctx context.Context, db *gorm.DB, userID string, version int64) (bool, error) {
	result := db.WithContext(ctx).
		Model(&models.AbandonedCart{}).
		Where("user_id = ? AND version = ? AND reminder_sent = ?", userID, version, false).
		Update("reminder_sent", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindDue возвращает снимки, по которым напоминание так и не ушло
func (r *AbandonedCartRepositoryImpl) FindDue(ctx context.Context, db *gorm.DB, updatedBefore time.Time, limit int) ([]models.AbandonedCart, error) {
	var carts []models.AbandonedCart
	err := db.WithContext(ctx).
		Where("reminder_sent = ? AND last_updated <= ?", false, updatedBefore).
		Order("last_updated ASC").
		Limit(limit).
		Find(&carts).Error
	return carts, err
}
