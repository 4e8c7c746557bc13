package model

import "time"

// Session 签到会话表 — 对应 sessions
// 一次实际签到过程；EndAt 为空表示进行中。
// 每班级同一时刻至多一个进行中的会话（部分唯一索引保证）；
// 每个课程场次至多挂接一个会话（ScheduleSessionID 唯一约束）。
type Session struct {
	ID                string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClassID           string     `gorm:"type:uuid;not null;index"                       json:"class_id"`
	ScheduleSessionID *string    `gorm:"type:uuid;uniqueIndex"                          json:"schedule_session_id,omitempty"`
	CreatedBy         string     `gorm:"type:uuid;not null"                             json:"created_by"`
	StartAt           time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"start_at"`
	EndAt             *time.Time `json:"end_at,omitempty"`
	BaseModel

	// 关联
	Class       *Class       `gorm:"foreignKey:ClassID"   json:"class,omitempty"`
	Attendances []Attendance `gorm:"foreignKey:SessionID" json:"attendances,omitempty"`
}

func (Session) TableName() string { return "sessions" }

// 签到方式常量
const (
	AttendanceMethodFace   = "face"
	AttendanceMethodManual = "manual"
)

// Attendance 签到记录表 — 对应 attendances
// 同一 (会话, 学生) 允许多条记录，但相邻两条须间隔 ≥ 去重窗口（业务层保证）。
type Attendance struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID string    `gorm:"type:uuid;not null;index"                       json:"session_id"`
	StudentID string    `gorm:"type:uuid;not null"                             json:"student_id"` // 内部 UUID，非学号
	Method    string    `gorm:"type:varchar(20);not null"                      json:"method"`     // face | manual
	MatchedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"matched_at"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (Attendance) TableName() string { return "attendances" }
