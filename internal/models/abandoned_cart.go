package models

import (
	"time"

	"gorm.io/datatypes"
)

// AbandonedCourse - снимок курса в момент ухода со страницы оплаты
type AbandonedCourse struct {
	CourseID  string    `json:"courseId"`
	Name      string    `json:"courseName"`
	Price     int64     `json:"price"`
	Thumbnail string    `json:"thumbnail"`
	AddedAt   time.Time `json:"addedAt"`
}

// AbandonedCart - единственный слот брошенной корзины пользователя.
// Version растет при каждой перезаписи и служит ключом отложенного напоминания.
type AbandonedCart struct {
	UserID       string                               `gorm:"type:varchar(36);primaryKey" json:"userId"`
	Items        datatypes.JSONSlice[AbandonedCourse] `json:"courses"`
	LastUpdated  time.Time                            `gorm:"index" json:"lastUpdated"`
	ReminderSent bool                                 `gorm:"not null;default:false;index" json:"reminderSent"`
	Version      int64                                `gorm:"not null;default:0" json:"version"`
}

func (c *AbandonedCart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}
