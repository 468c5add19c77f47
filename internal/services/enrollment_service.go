package services

import (
	"context"
	"errors"

	"skillup_backend/internal/events"
	"skillup_backend/internal/logger"
	"skillup_backend/internal/models"
	"skillup_backend/internal/repositories"
	"skillup_backend/internal/services/dto"
	"skillup_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type EnrollmentService interface {
	EnrollStudent(ctx context.Context, db *gorm.DB, userID string, courseIDs []string) (*dto.EnrollmentReport, error)
}

type EnrollmentServiceImpl struct {
	courseRepo   repositories.CourseRepository
	userRepo     repositories.UserRepository
	progressRepo repositories.ProgressRepository
	notifier     NotificationService
	publisher    events.Publisher
}

func NewEnrollmentService(
	courseRepo repositories.CourseRepository,
	userRepo repositories.UserRepository,
	progressRepo repositories.ProgressRepository,
	notifier NotificationService,
	publisher events.Publisher,
) EnrollmentService {
	return &EnrollmentServiceImpl{
		courseRepo:   courseRepo,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		notifier:     notifier,
		publisher:    publisher,
	}
}

// EnrollStudent записывает студента на каждый курс в отдельной транзакции.
// Сбой одного курса не откатывает остальные: итог по каждому курсу в отчете.
func (s *EnrollmentServiceImpl) EnrollStudent(ctx context.Context, db *gorm.DB, userID string, courseIDs []string) (*dto.EnrollmentReport, error) {
	user, err := s.userRepo.FindByID(ctx, db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.DatabaseError(err)
	}

	report := &dto.EnrollmentReport{UserID: userID}
	var enrolled []*models.Course

	for _, courseID := range UniqueIDs(courseIDs) {
		course, alreadyEnrolled, err := s.enrollOne(ctx, db, userID, courseID)
		switch {
		case err != nil:
			reason := "enrollment failed"
			if errors.Is(err, repositories.ErrCourseNotFound) {
				reason = "course not found"
			}
			logger.CtxWithError(ctx, "Enrollment failed for course", err, "course_id", courseID, "user_id", userID)
			report.AddFailed(courseID, reason)
		case alreadyEnrolled:
			logger.CtxInfo(ctx, "Student already enrolled, skipping", "course_id", courseID, "user_id", userID)
			report.AddAlreadyEnrolled(courseID)
		default:
			report.AddEnrolled(courseID)
			enrolled = append(enrolled, course)
			s.notifier.SendCourseWelcome(ctx, user, course)
		}
	}

	s.publishEnrolled(ctx, userID, enrolled)

	return report, nil
}

func (s *EnrollmentServiceImpl) enrollOne(ctx context.Context, db *gorm.DB, userID, courseID string) (*models.Course, bool, error) {
	var course *models.Course
	alreadyEnrolled := false

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.courseRepo.FindByID(ctx, tx, courseID)
		if err != nil {
			return err
		}

		added, err := s.courseRepo.AddStudent(ctx, tx, courseID, userID)
		if err != nil {
			return err
		}
		if !added {
			alreadyEnrolled = true
			return nil
		}

		if _, err := s.progressRepo.Create(ctx, tx, courseID, userID); err != nil {
			return err
		}
		if err := s.userRepo.LinkCourse(ctx, tx, userID, courseID); err != nil {
			return err
		}

		course = found
		return nil
	})
	return course, alreadyEnrolled, err
}

func (s *EnrollmentServiceImpl) publishEnrolled(ctx context.Context, userID string, courses []*models.Course) {
	if len(courses) == 0 {
		return
	}
	batch := make([]events.Event, 0, len(courses))
	for _, c := range courses {
		batch = append(batch, events.Event{
			Type: events.TypeCourseEnrolled,
			Key:  userID,
			Payload: map[string]interface{}{
				"userId":   userID,
				"courseId": c.ID,
			},
		})
	}
	if err := s.publisher.Publish(ctx, batch...); err != nil {
		logger.CtxWithError(ctx, "Failed to publish enrollment events", err, "user_id", userID)
	}
}
