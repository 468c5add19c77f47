package helpers

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"skillup_backend/database"
	"skillup_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewTestDB поднимает отдельную in-memory sqlite базу с мигрированной схемой.
// У каждого теста своя база, поэтому тесты можно запускать параллельно.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbSeq.Add(1))

	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err, "Не удалось открыть тестовую БД")
	require.NoError(t, database.AutoMigrate(db), "Не удалось выполнить AutoMigrate")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CreateUser создает пользователя с уникальным email
func CreateUser(t *testing.T, db *gorm.DB, firstName string, accountType models.AccountType) *models.User {
	t.Helper()

	user := &models.User{
		FirstName:   firstName,
		LastName:    "Tester",
		Email:       fmt.Sprintf("%s_%d@test.dev", strings.ToLower(firstName), dbSeq.Add(1)),
		AccountType: accountType,
	}
	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя")
	return user
}

// CreateStudent - пользователь с типом аккаунта Student
func CreateStudent(t *testing.T, db *gorm.DB) *models.User {
	return CreateUser(t, db, "Student", models.AccountTypeStudent)
}

// CreateCourse создает курс с ценой в рупиях
func CreateCourse(t *testing.T, db *gorm.DB, title string, price int64) *models.Course {
	t.Helper()

	course := &models.Course{
		Title:       title,
		Description: title + " description",
		Price:       price,
	}
	require.NoError(t, db.Create(course).Error, "Не удалось создать курс")
	return course
}

// ReloadCourse перечитывает курс из базы (например, чтобы проверить счетчик)
func ReloadCourse(t *testing.T, db *gorm.DB, id string) *models.Course {
	t.Helper()

	var course models.Course
	require.NoError(t, db.First(&course, "id = ?", id).Error)
	return &course
}

// CountRows считает строки модели по условию
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}
