package models

import "gorm.io/datatypes"

// CourseProgress - прогресс студента по курсу, одна запись на пару (курс, студент)
type CourseProgress struct {
	BaseModel
	CourseID        string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_course_user" json:"courseID"`
	UserID          string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_progress_course_user" json:"userId"`
	CompletedVideos datatypes.JSONSlice[string] `json:"completedVideos"`
}

func (CourseProgress) TableName() string {
	return "course_progress"
}
