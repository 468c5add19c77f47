package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProcessedPayment - журнал проверенных платежей. Первичный ключ по payment id
// не дает одному колбэку записать студента дважды.
type ProcessedPayment struct {
	PaymentID   string                      `gorm:"type:varchar(64);primaryKey" json:"paymentId"`
	OrderID     string                      `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderId"`
	UserID      string                      `gorm:"type:varchar(36);index;not null" json:"userId"`
	Amount      int64                       `json:"amount"` // в пайсах
	Currency    string                      `gorm:"type:varchar(8)" json:"currency"`
	CourseIDs   datatypes.JSONSlice[string] `json:"courses"`
	Status      PaymentStatus               `gorm:"type:varchar(20);not null" json:"status"`
	ReceiptSent bool                        `gorm:"not null;default:false" json:"receiptSent"`
	CreatedAt   time.Time                   `json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}
