package repositories

import (
	"context"
	"errors"

	"skillup_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCourseNotFound = errors.New("course not found")
)

type CourseRepository interface {
	FindByID(ctx context.Context, db *gorm.DB, id string) (*models.Course, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]models.Course, error)
	FindEnrolledAmong(ctx context.Context, db *gorm.DB, userID string, courseIDs []string) ([]string, error)
	AddStudent(ctx context.Context, db *gorm.DB, courseID, userID string) (bool, error)
	IsStudentEnrolled(ctx context.Context, db *gorm.DB, courseID, userID string) (bool, error)
}

type CourseRepositoryImpl struct{}

func NewCourseRepository() CourseRepository {
	return &CourseRepositoryImpl{}
}

func (r *CourseRepositoryImpl) FindByID(ctx context.Context, db *gorm.DB, id string) (*models.Course, error) {
	var course models.Course
	err := db.WithContext(ctx).First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return &course, nil
}

// FindByIDs возвращает найденные курсы. Отсутствующие id просто не попадают в результат.
func (r *CourseRepositoryImpl) FindByIDs(ctx context.Context, db *gorm.DB, ids []string) ([]models.Course, error) {
	var courses []models.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

// FindEnrolledAmong возвращает те курсы из списка, на которые студент уже записан
func (r *CourseRepositoryImpl) FindEnrolledAmong(ctx context.Context, db *gorm.DB, userID string, courseIDs []string) ([]string, error) {
	var enrolled []string
	if len(courseIDs) == 0 {
		return enrolled, nil
	}
	err := db.WithContext(ctx).
		Model(&models.CourseStudent{}).
		Where("user_id = ? AND course_id IN ?", userID, courseIDs).
		Pluck("course_id", &enrolled).Error
	return enrolled, err
}

// AddStudent добавляет студента во множество курса и увеличивает счетчик.
// false без ошибки означает, что студент уже был записан и ничего не изменилось.
func (r *CourseRepositoryImpl) AddStudent(ctx context.Context, db *gorm.DB, courseID, userID string) (bool, error) {
	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CourseStudent{CourseID: courseID, UserID: userID})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	upd := db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", courseID).
		UpdateColumn("enrolled_count", gorm.Expr("enrolled_count + ?", 1))
	if upd.Error != nil {
		return false, upd.Error
	}
	if upd.RowsAffected == 0 {
		return false, ErrCourseNotFound
	}
	return true, nil
}

func (r *CourseRepositoryImpl) IsStudentEnrolled(ctx context.Context, db *gorm.DB, courseID, userID string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&models.CourseStudent{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}
