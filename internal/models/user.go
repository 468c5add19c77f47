package models

import "strings"

type User struct {
	BaseModel
	FirstName   string      `gorm:"not null" json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `gorm:"uniqueIndex;not null" json:"email"`
	AccountType AccountType `gorm:"type:varchar(20);not null;default:'Student'" json:"accountType"`

	// Relations
	Courses       []Course         `gorm:"many2many:user_courses;" json:"courses,omitempty"`
	Progress      []CourseProgress `gorm:"foreignKey:UserID" json:"courseProgress,omitempty"`
	AbandonedCart *AbandonedCart   `gorm:"foreignKey:UserID" json:"abandonedCart,omitempty"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserCourse - строка в списке купленных курсов пользователя
type UserCourse struct {
	UserID   string `gorm:"type:varchar(36);primaryKey"`
	CourseID string `gorm:"type:varchar(36);primaryKey"`
}

func (UserCourse) TableName() string {
	return "user_courses"
}
