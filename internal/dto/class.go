package dto

// ── 班级模块 DTO ──

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	Name        string  `json:"name"        binding:"required,min=1,max=200"`
	Code        *string `json:"code"        binding:"omitempty,max=50"`
	Description *string `json:"description"`
}

// UpdateClassRequest 更新班级请求
type UpdateClassRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=200"`
	Code        *string `json:"code"        binding:"omitempty,max=50"`
	Description *string `json:"description"`
}

// ClassResponse 班级信息响应
type ClassResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Code           *string           `json:"code,omitempty"`
	Description    *string           `json:"description,omitempty"`
	LecturerID     string            `json:"lecturer_id"`
	LecturerName   string            `json:"lecturer_name,omitempty"`
	StudentCount   int64             `json:"student_count"`
	SessionCount   int64             `json:"session_count"`
	LatestSchedule *ScheduleResponse `json:"latest_schedule,omitempty"`
	CreatedAt      string            `json:"created_at"`
}

// ClassDetailResponse 班级详情（含学生列表）
type ClassDetailResponse struct {
	ClassResponse
	Lecturer *UserResponse     `json:"lecturer,omitempty"`
	Students []StudentResponse `json:"students"`
}
