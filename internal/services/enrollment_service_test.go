package services_test

import (
	"context"
	"testing"

	"skillup_backend/internal/email"
	"skillup_backend/internal/events"
	"skillup_backend/internal/models"
	"skillup_backend/internal/repositories"
	"skillup_backend/internal/services"
	"skillup_backend/pkg/apperrors"
	"skillup_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type enrollmentFixture struct {
	service   services.EnrollmentService
	mail      *helpers.RecordingEmailProvider
	publisher *helpers.RecordingPublisher
}

func newEnrollmentFixture() *enrollmentFixture {
	mail := helpers.NewRecordingEmailProvider()
	publisher := helpers.NewRecordingPublisher()
	notifier := services.NewNotificationService(mail, false)

	return &enrollmentFixture{
		service: services.NewEnrollmentService(
			repositories.NewCourseRepository(),
			repositories.NewUserRepository(),
			repositories.NewProgressRepository(),
			notifier,
			publisher,
		),
		mail:      mail,
		publisher: publisher,
	}
}

func TestEnrollStudent_SamePairTwiceChangesNothing(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()
	f := newEnrollmentFixture()

	student := helpers.CreateStudent(t, db)
	course := helpers.CreateCourse(t, db, "Go Basics", 10)

	report, err := f.service.EnrollStudent(ctx, db, student.ID, []string{course.ID})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusEnrolled, report.Status())

	report, err = f.service.EnrollStudent(ctx, db, student.ID, []string{course.ID})
	require.NoError(t, err)
	require.Len(t, report.Courses, 1)
	assert.Equal(t, models.EnrollmentOutcomeAlreadyEnrolled, report.Courses[0].Outcome)

	assert.Equal(t, int64(1), helpers.ReloadCourse(t, db, course.ID).EnrolledCount)
	assert.Equal(t, int64(1), helpers.CountRows(t, db, &models.CourseStudent{}, "course_id = ? AND user_id = ?", course.ID, student.ID))
	assert.Equal(t, int64(1), helpers.CountRows(t, db, &models.CourseProgress{}, "course_id = ? AND user_id = ?", course.ID, student.ID))
	assert.Equal(t, int64(1), helpers.CountRows(t, db, &models.UserCourse{}, "course_id = ? AND user_id = ?", course.ID, student.ID))

	assert.Len(t, f.mail.Sent(email.TemplateCourseWelcome), 1, "welcome email only for the first enrollment")
	assert.Len(t, f.publisher.Events(events.TypeCourseEnrolled), 1)
}

func TestEnrollStudent_FailedCourseDoesNotBlockOthers(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()
	f := newEnrollmentFixture()

	student := helpers.CreateStudent(t, db)
	ids := make([]string, 0, 5)
	for i, title := range []string{"C1", "C2", "", "C4", "C5"} {
		if i == 2 {
			ids = append(ids, "deleted-course")
			continue
		}
		ids = append(ids, helpers.CreateCourse(t, db, title, 10).ID)
	}

	report, err := f.service.EnrollStudent(ctx, db, student.ID, ids)
	require.NoError(t, err)
	require.Len(t, report.Courses, 5)

	assert.Equal(t, 1, report.FailedCount())
	assert.Equal(t, models.PaymentStatusPartial, report.Status())
	assert.Equal(t, "deleted-course", report.Courses[2].CourseID)
	assert.Equal(t, models.EnrollmentOutcomeFailed, report.Courses[2].Outcome)
	assert.Equal(t, "course not found", report.Courses[2].Reason)

	for _, i := range []int{0, 1, 3, 4} {
		assert.Equal(t, models.EnrollmentOutcomeEnrolled, report.Courses[i].Outcome, "course %d", i)
		assert.Equal(t, int64(1), helpers.ReloadCourse(t, db, ids[i]).EnrolledCount)
	}
	assert.Equal(t, int64(4), helpers.CountRows(t, db, &models.CourseProgress{}, "user_id = ?", student.ID))
	assert.Len(t, f.mail.Sent(email.TemplateCourseWelcome), 4)
}

// snapshotMail на каждое письмо запоминает, на сколько курсов студент записан в этот момент
type snapshotMail struct {
	helpers.RecordingEmailProvider
	t         *testing.T
	db        *gorm.DB
	userID    string
	enrolled  []int64
	courses   []string
}

func (m *snapshotMail) SendTemplate(ctx context.Context, to []string, subject, templateName string, data email.TemplateData) error {
	m.enrolled = append(m.enrolled, helpers.CountRows(m.t, m.db, &models.CourseStudent{}, "user_id = ?", m.userID))
	m.courses = append(m.courses, data["CourseName"].(string))
	return nil
}

func TestEnrollStudent_WelcomeSentRightAfterEachCourse(t *testing.T) {
	db := helpers.NewTestDB(t)
	student := helpers.CreateStudent(t, db)
	mail := &snapshotMail{t: t, db: db, userID: student.ID}

	service := services.NewEnrollmentService(
		repositories.NewCourseRepository(),
		repositories.NewUserRepository(),
		repositories.NewProgressRepository(),
		services.NewNotificationService(mail, false),
		helpers.NewRecordingPublisher(),
	)

	c := helpers.CreateCourse(t, db, "Course C", 10)
	a := helpers.CreateCourse(t, db, "Course A", 10)
	b := helpers.CreateCourse(t, db, "Course B", 10)

	_, err := service.EnrollStudent(context.Background(), db, student.ID, []string{c.ID, a.ID, "missing", b.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{"Course C", "Course A", "Course B"}, mail.courses)
	assert.Equal(t, []int64{1, 2, 3}, mail.enrolled, "each welcome goes out before the next course is written")
}

func TestEnrollStudent_UnknownUser(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newEnrollmentFixture()
	course := helpers.CreateCourse(t, db, "Go", 10)

	report, err := f.service.EnrollStudent(context.Background(), db, "ghost", []string{course.ID})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Equal(t, int64(0), helpers.ReloadCourse(t, db, course.ID).EnrolledCount)
}

func TestEnrollStudent_AllFailed(t *testing.T) {
	db := helpers.NewTestDB(t)
	f := newEnrollmentFixture()
	student := helpers.CreateStudent(t, db)

	report, err := f.service.EnrollStudent(context.Background(), db, student.ID, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, report.Status())
	assert.Empty(t, f.mail.Sent(""))
	assert.Empty(t, f.publisher.Events(""))
}
