package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillup_backend/internal/logger"
	"skillup_backend/internal/models"
	"skillup_backend/internal/repositories"
	"skillup_backend/internal/services/dto"
	"skillup_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ReminderScheduler - отложенные задачи с ключом. Повторный Schedule по ключу заменяет задачу.
type ReminderScheduler interface {
	Schedule(key string, delay time.Duration, fn func())
	Cancel(key string) bool
}

type AbandonmentService interface {
	Track(ctx context.Context, db *gorm.DB, userID string, req *dto.TrackAbandonmentRequest) (*models.AbandonedCart, error)
	FireReminder(ctx context.Context, db *gorm.DB, userID string, version int64) (bool, error)
	SweepDue(ctx context.Context, db *gorm.DB, now time.Time) (int, error)
	CancelReminder(ctx context.Context, db *gorm.DB, userID string)
}

type AbandonmentServiceImpl struct {
	cartRepo  repositories.AbandonedCartRepository
	userRepo  repositories.UserRepository
	notifier  NotificationService
	scheduler ReminderScheduler
	delay     time.Duration
	batchSize int
	now       func() time.Time
}

func NewAbandonmentService(
	cartRepo repositories.AbandonedCartRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
	scheduler ReminderScheduler,
	delay time.Duration,
) *AbandonmentServiceImpl {
	if delay <= 0 {
		delay = time.Hour
	}
	return &AbandonmentServiceImpl{
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		scheduler: scheduler,
		delay:     delay,
		batchSize: 100,
		now:       time.Now,
	}
}

// Track перезаписывает снимок корзины и планирует одно напоминание для новой версии
func (s *AbandonmentServiceImpl) Track(ctx context.Context, db *gorm.DB, userID string, req *dto.TrackAbandonmentRequest) (*models.AbandonedCart, error) {
	var missing []string
	if strings.TrimSpace(userID) == "" {
		missing = append(missing, "userId")
	}
	if strings.TrimSpace(req.CourseID) == "" {
		missing = append(missing, "courseId")
	}
	if strings.TrimSpace(req.CourseName) == "" {
		missing = append(missing, "courseName")
	}
	if len(missing) > 0 {
		return nil, apperrors.ErrMissingFields(missing...)
	}

	now := s.now()
	items := []models.AbandonedCourse{{
		CourseID:  req.CourseID,
		Name:      req.CourseName,
		Price:     req.Price,
		Thumbnail: req.Thumbnail,
		AddedAt:   now,
	}}
	seen := map[string]bool{req.CourseID: true}
	for _, extra := range req.Extra {
		if extra.CourseID == "" || seen[extra.CourseID] {
			continue
		}
		seen[extra.CourseID] = true
		items = append(items, models.AbandonedCourse{
			CourseID:  extra.CourseID,
			Name:      extra.CourseName,
			Price:     extra.Price,
			Thumbnail: extra.Thumbnail,
			AddedAt:   now,
		})
	}

	cart, err := s.cartRepo.Overwrite(ctx, db, userID, items, now)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	version := cart.Version
	s.scheduler.Schedule(userID, s.delay, func() {
		fireCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		fireCtx = logger.WithUserID(fireCtx, userID)
		if _, err := s.FireReminder(fireCtx, db, userID, version); err != nil {
			logger.CtxWithError(fireCtx, "Cart reminder failed", err, "version", version)
		}
	})

	logger.CtxInfo(ctx, "Abandoned cart tracked", "user_id", userID, "version", version, "items", len(items))
	return cart, nil
}

// FireReminder отправляет напоминание, только если снимок не менялся и напоминание еще не уходило.
// Флаг ставится условным UPDATE до отправки, поэтому второй вызов ничего не шлет.
func (s *AbandonmentServiceImpl) FireReminder(ctx context.Context, db *gorm.DB, userID string, version int64) (bool, error) {
	cart, err := s.cartRepo.FindByUser(ctx, db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCartNotFound) {
			return false, nil
		}
		return false, err
	}
	if cart.Version != version || cart.ReminderSent {
		return false, nil
	}

	// пользователь читается до флага: при сбое снимок остается неотмеченным и его подберет sweep
	user, err := s.userRepo.FindByID(ctx, db, userID)
	if err != nil {
		return false, err
	}

	claimed, err := s.cartRepo.MarkReminderSent(ctx, db, userID, version)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	s.notifier.SendCartReminder(ctx, user, cart)
	return true, nil
}

// SweepDue досылает напоминания, чьи таймеры потерялись (например, после рестарта)
func (s *AbandonmentServiceImpl) SweepDue(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	carts, err := s.cartRepo.FindDue(ctx, db, now.Add(-s.delay), s.batchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, cart := range carts {
		ok, err := s.FireReminder(ctx, db, cart.UserID, cart.Version)
		if err != nil {
			logger.CtxWithError(ctx, "Sweep reminder failed", err, "user_id", cart.UserID)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

// CancelReminder снимает отложенное напоминание после покупки и закрывает текущий снимок,
// чтобы его не подобрал и sweeper.
func (s *AbandonmentServiceImpl) CancelReminder(ctx context.Context, db *gorm.DB, userID string) {
	s.scheduler.Cancel(userID)

	cart, err := s.cartRepo.FindByUser(ctx, db, userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrCartNotFound) {
			logger.CtxWithError(ctx, "Failed to load cart on checkout", err, "user_id", userID)
		}
		return
	}
	if cart.ReminderSent {
		return
	}
	if _, err := s.cartRepo.MarkReminderSent(ctx, db, userID, cart.Version); err != nil {
		logger.CtxWithError(ctx, "Failed to close cart on checkout", err, "user_id", userID)
	}
}
