package models

type Course struct {
	BaseModel
	Title         string `gorm:"not null" json:"courseName"`
	Description   string `json:"courseDescription"`
	Thumbnail     string `json:"thumbnail"`
	InstructorID  string `gorm:"type:varchar(36);index" json:"instructor"`
	Price         int64  `gorm:"not null" json:"price"` // в рупиях, в пайсы переводится при создании заказа
	EnrolledCount int64  `gorm:"not null;default:0" json:"enrolledCount"`

	Students []User `gorm:"many2many:course_students;" json:"-"`
}

// CourseStudent - множество записанных студентов курса. Составной ключ
// гарантирует, что студент встречается не более одного раза.
type CourseStudent struct {
	CourseID string `gorm:"type:varchar(36);primaryKey"`
	UserID   string `gorm:"type:varchar(36);primaryKey"`
}

func (CourseStudent) TableName() string {
	return "course_students"
}
