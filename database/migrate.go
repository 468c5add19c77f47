package database

import (
	"fmt"
	"strings"
	"time"

	"skillup_backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect открывает GORM-подключение для указанного драйвера (postgres, mysql, sqlite)
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(driver) {
	case "", "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if strings.HasPrefix(strings.ToLower(driver), "sqlite") {
		// sqlite не любит параллельных писателей
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "Courses", &models.UserCourse{}); err != nil {
		return fmt.Errorf("setup user_courses: %w", err)
	}
	if err := db.SetupJoinTable(&models.Course{}, "Students", &models.CourseStudent{}); err != nil {
		return fmt.Errorf("setup course_students: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.UserCourse{},
		&models.CourseStudent{},
		&models.CourseProgress{},
		&models.AbandonedCart{},
		&models.ProcessedPayment{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
