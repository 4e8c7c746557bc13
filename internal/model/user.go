package model

// 用户角色常量
const (
	RoleAdmin    = "admin"
	RoleLecturer = "lecturer"
	RoleStudent  = "student"
)

// User 用户表 — 对应 users
type User struct {
	UID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"uid"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	DisplayName  string `gorm:"type:varchar(100);not null"                     json:"display_name"`
	Role         string `gorm:"type:varchar(20);not null;default:'student'"    json:"role"` // admin | lecturer | student
	BaseModel
}

func (User) TableName() string { return "users" }
