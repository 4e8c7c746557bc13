package model

import "time"

// 通知类型常量
const (
	NotificationSessionReminder = "SESSION_REMINDER"
	NotificationGeneral         = "GENERAL"
)

// Notification 通知消息表 — 对应 notifications
// RelatedType/RelatedID 指向触发通知的业务对象；
// 提醒轮询用 (type, related_id) 做软幂等检查。
type Notification struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID      string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Type        string     `gorm:"type:varchar(50);not null"                      json:"type"`
	Title       string     `gorm:"type:varchar(200);not null"                     json:"title"`
	Message     string     `gorm:"type:text;not null"                             json:"message"`
	IsRead      bool       `gorm:"not null;default:false"                         json:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	RelatedType *string    `gorm:"type:varchar(50)"                               json:"related_type,omitempty"` // schedule_session | session
	RelatedID   *string    `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
