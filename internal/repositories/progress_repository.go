package repositories

import (
	"context"

	"skillup_backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProgressRepository interface {
	Create(ctx context.Context, db *gorm.DB, courseID, userID string) (*models.CourseProgress, error)
	FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]models.CourseProgress, error)
	Count(ctx context.Context, db *gorm.DB, courseID, userID string) (int64, error)
}

type ProgressRepositoryImpl struct{}

func NewProgressRepository() ProgressRepository {
	return &ProgressRepositoryImpl{}
}

// Create создает пустой прогресс. Уникальный индекс (course_id, user_id) не даст создать второй.
func (r *ProgressRepositoryImpl) Create(ctx context.Context, db *gorm.DB, courseID, userID string) (*models.CourseProgress, error) {
	progress := &models.CourseProgress{
		CourseID:        courseID,
		UserID:          userID,
		CompletedVideos: datatypes.JSONSlice[string]{},
	}
	if err := db.WithContext(ctx).Create(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

func (r *ProgressRepositoryImpl) FindByUser(ctx context.Context, db *gorm.DB, userID string) ([]models.CourseProgress, error) {
	var progress []models.CourseProgress
	err := db.WithContext(ctx).Where("user_id = ?", userID).Find(&progress).Error
	return progress, err
}

func (r *ProgressRepositoryImpl) Count(ctx context.Context, db *gorm.DB, courseID, userID string) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&models.CourseProgress{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count, err
}
