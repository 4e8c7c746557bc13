package dto

// ── 签到会话模块 DTO ──

// StartSessionRequest 开启签到会话
// schedule_session_id 可选：传入时将会话挂到对应课节上
type StartSessionRequest struct {
	ClassID           string  `json:"class_id" binding:"required,uuid"`
	ScheduleSessionID *string `json:"schedule_session_id" binding:"omitempty,uuid"`
}

// SessionResponse 签到会话响应
type SessionResponse struct {
	ID                string  `json:"id"`
	ClassID           string  `json:"class_id"`
	ScheduleSessionID *string `json:"schedule_session_id,omitempty"`
	CreatedBy         string  `json:"created_by"`
	StartAt           string  `json:"start_at"`
	EndAt             *string `json:"end_at,omitempty"`
	Active            bool    `json:"active"`
}

// SessionDetailResponse 会话详情，含出勤汇总
type SessionDetailResponse struct {
	SessionResponse
	AttendeeCount int `json:"attendee_count"`
	StudentCount  int `json:"student_count"`
}
