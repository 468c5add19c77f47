package repositories

import (
	"context"
	"errors"

	"skillup_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id string) (*models.User, error)
	LinkCourse(ctx context.Context, db *gorm.DB, userID, courseID string) error
	FindOwnedCourses(ctx context.Context, db *gorm.DB, userID string) ([]models.Course, error)
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// LinkCourse добавляет курс в список купленных курсов пользователя
func (r *UserRepositoryImpl) LinkCourse(ctx context.Context, db *gorm.DB, userID, courseID string) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserCourse{UserID: userID, CourseID: courseID}).Error
}

func (r *UserRepositoryImpl) FindOwnedCourses(ctx context.Context, db *gorm.DB, userID string) ([]models.Course, error) {
	var courses []models.Course
	err := db.WithContext(ctx).
		Joins("JOIN user_courses ON user_courses.course_id = courses.id").
		Where("user_courses.user_id = ?", userID).
		Order("courses.title ASC").
		Find(&courses).Error
	return courses, err
}
