package repositories_test

import (
	"context"
	"testing"
	"time"

	"skillup_backend/internal/models"
	"skillup_backend/internal/repositories"
	"skillup_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newLedgerEntry(paymentID, orderID, userID string) *models.ProcessedPayment {
	return &models.ProcessedPayment{
		PaymentID: paymentID,
		OrderID:   orderID,
		UserID:    userID,
		Amount:    3000,
		Currency:  "INR",
		CourseIDs: datatypes.JSONSlice[string]{"a", "b"},
		Status:    models.PaymentStatusProcessing,
	}
}

func TestPaymentRepository_ReserveOnce(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()
	repo := repositories.NewPaymentRepository()

	reserved, err := repo.Reserve(ctx, db, newLedgerEntry("pay_1", "order_1", "u1"))
	require.NoError(t, err)
	assert.True(t, reserved)

	reserved, err = repo.Reserve(ctx, db, newLedgerEntry("pay_1", "order_1", "u1"))
	require.NoError(t, err)
	assert.False(t, reserved, "duplicate payment id")

	reserved, err = repo.Reserve(ctx, db, newLedgerEntry("pay_2", "order_1", "u1"))
	require.NoError(t, err)
	assert.False(t, reserved, "order already settled by another payment")

	entry, err := repo.FindByPaymentID(ctx, db, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, "order_1", entry.OrderID)
	assert.Equal(t, []string{"a", "b"}, []string(entry.CourseIDs))

	_, err = repo.FindByPaymentID(ctx, db, "pay_2")
	assert.ErrorIs(t, err, repositories.ErrPaymentNotFound)

	byOrder, err := repo.FindByOrderID(ctx, db, "order_1")
	require.NoError(t, err)
	assert.Equal(t, "pay_1", byOrder.PaymentID)
}

func TestPaymentRepository_UpdateStatusAndReceipt(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()
	repo := repositories.NewPaymentRepository()

	_, err := repo.Reserve(ctx, db, newLedgerEntry("pay_1", "order_1", "u1"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, db, "pay_1", models.PaymentStatusEnrolled))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, db, "pay_x", models.PaymentStatusEnrolled), repositories.ErrPaymentNotFound)

	claimed, err := repo.MarkReceiptSent(ctx, db, "pay_1")
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.MarkReceiptSent(ctx, db, "pay_1")
	require.NoError(t, err)
	assert.False(t, claimed)

	entry, err := repo.FindByPaymentID(ctx, db, "pay_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusEnrolled, entry.Status)
	assert.True(t, entry.ReceiptSent)
}

func TestPaymentRepository_ReclaimStale(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()
	repo := repositories.NewPaymentRepository()

	_, err := repo.Reserve(ctx, db, newLedgerEntry("pay_1", "order_1", "u1"))
	require.NoError(t, err)

	claimed, err := repo.ReclaimStale(ctx, db, "pay_1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, claimed, "fresh entry belongs to the running request")

	claimed, err = repo.ReclaimStale(ctx, db, "pay_1", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, claimed)

	// updated_at сдвинулся, второй забирающий с тем же порогом проигрывает
	claimed, err = repo.ReclaimStale(ctx, db, "pay_1", time.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, repo.UpdateStatus(ctx, db, "pay_1", models.PaymentStatusEnrolled))
	claimed, err = repo.ReclaimStale(ctx, db, "pay_1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, claimed, "only processing entries can be reclaimed")
}

func TestAbandonedCartRepository_OverwriteBumpsVersion(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()
	repo := repositories.NewAbandonedCartRepository()
	now := time.Now().UTC()

	cart, err := repo.Overwrite(ctx, db, "u1", []models.AbandonedCourse{{CourseID: "a", Name: "A", Price: 10}}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cart.Version)
	assert.False(t, cart.ReminderSent)

	claimed, err := repo.MarkReminderSent(ctx, db, "u1", 1)
	require.NoError(t, err)
	assert.True(t, claimed)

	cart, err = repo.Overwrite(ctx, db, "u1", []models.AbandonedCourse{{CourseID: "b", Name: "B", Price: 20}}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), cart.Version)
	assert.False(t, cart.ReminderSent, "overwrite resets the reminder flag")

	stored, err := repo.FindByUser(ctx, db, "u1")
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "b", stored.Items[0].CourseID)
	assert.Equal(t, int64(20), stored.Total())
	assert.Equal(t, int64(2), stored.Version)

	_, err = repo.FindByUser(ctx, db, "u2")
	assert.ErrorIs(t, err, repositories.ErrCartNotFound)
}

func TestAbandonedCartRepository_MarkReminderSentChecksVersion(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()
	repo := repositories.NewAbandonedCartRepository()
	now := time.Now().UTC()

	_, err := repo.Overwrite(ctx, db, "u1", []models.AbandonedCourse{{CourseID: "a"}}, now)
	require.NoError(t, err)
	_, err = repo.Overwrite(ctx, db, "u1", []models.AbandonedCourse{{CourseID: "b"}}, now)
	require.NoError(t, err)

	claimed, err := repo.MarkReminderSent(ctx, db, "u1", 1)
	require.NoError(t, err)
	assert.False(t, claimed, "stale version")

	claimed, err = repo.MarkReminderSent(ctx, db, "u1", 2)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.MarkReminderSent(ctx, db, "u1", 2)
	require.NoError(t, err)
	assert.False(t, claimed, "already sent")
}

func TestAbandonedCartRepository_FindDue(t *testing.T) {
	db := helpers.NewTestDB(t)
	ctx := context.Background()
	repo := repositories.NewAbandonedCartRepository()
	now := time.Now().UTC()

	_, err := repo.Overwrite(ctx, db, "old", []models.AbandonedCourse{{CourseID: "a"}}, now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = repo.Overwrite(ctx, db, "fresh", []models.AbandonedCourse{{CourseID: "a"}}, now)
	require.NoError(t, err)
	_, err = repo.Overwrite(ctx, db, "done", []models.AbandonedCourse{{CourseID: "a"}}, now.Add(-3*time.Hour))
	require.NoError(t, err)
	_, err = repo.MarkReminderSent(ctx, db, "done", 1)
	require.NoError(t, err)

	due, err := repo.FindDue(ctx, db, now.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "old", due[0].UserID)
}
