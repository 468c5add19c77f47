package services

import (
	"context"
	"strings"

	"skillup_backend/internal/models"
	"skillup_backend/internal/repositories"
	"skillup_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CatalogService interface {
	GetCourses(ctx context.Context, db *gorm.DB, courseIDs []string) ([]models.Course, error)
	EnrolledAmong(ctx context.Context, db *gorm.DB, userID string, courseIDs []string) ([]string, error)
}

type CatalogServiceImpl struct {
	courseRepo repositories.CourseRepository
}

func NewCatalogService(courseRepo repositories.CourseRepository) CatalogService {
	return &CatalogServiceImpl{courseRepo: courseRepo}
}

// GetCourses возвращает курсы в порядке запроса. Если хотя бы одного нет - NotFound с перечнем.
func (s *CatalogServiceImpl) GetCourses(ctx context.Context, db *gorm.DB, courseIDs []string) ([]models.Course, error) {
	ids := UniqueIDs(courseIDs)
	found, err := s.courseRepo.FindByIDs(ctx, db, ids)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	byID := make(map[string]models.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	courses := make([]models.Course, 0, len(ids))
	var missing []string
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		courses = append(courses, c)
	}
	if len(missing) > 0 {
		return nil, apperrors.ErrCoursesNotFound(missing)
	}
	return courses, nil
}

// EnrolledAmong - курсы из списка, уже купленные пользователем, в порядке запроса
func (s *CatalogServiceImpl) EnrolledAmong(ctx context.Context, db *gorm.DB, userID string, courseIDs []string) ([]string, error) {
	ids := UniqueIDs(courseIDs)
	enrolled, err := s.courseRepo.FindEnrolledAmong(ctx, db, userID, ids)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}
	set := make(map[string]struct{}, len(enrolled))
	for _, id := range enrolled {
		set[id] = struct{}{}
	}

	var ordered []string
	for _, id := range ids {
		if _, ok := set[id]; ok {
			ordered = append(ordered, id)
		}
	}
	return ordered, nil
}

// UniqueIDs убирает пустые и повторные id, сохраняя первое вхождение
func UniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
