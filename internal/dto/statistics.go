package dto

// ── 统计模块 DTO ──

// ClassStatisticsResponse 班级出勤统计
type ClassStatisticsResponse struct {
	ClassID       string             `json:"class_id"`
	ClassName     string             `json:"class_name"`
	StudentCount  int64              `json:"student_count"`
	SessionCount  int64              `json:"session_count"`
	AttendRate    float64            `json:"attend_rate"` // 0~1
	PerStudent    []StudentAttendRow `json:"per_student"`
}

// StudentAttendRow 单个学生的出勤汇总行
type StudentAttendRow struct {
	StudentID   string  `json:"student_id"`
	StudentCode string  `json:"student_code"`
	Name        string  `json:"name"`
	Attended    int64   `json:"attended"`
	Total       int64   `json:"total"`
	Rate        float64 `json:"rate"`
}

// SessionStatisticsResponse 单次会话出勤统计
type SessionStatisticsResponse struct {
	SessionID     string `json:"session_id"`
	ClassID       string `json:"class_id"`
	StudentCount  int64  `json:"student_count"`
	AttendeeCount int64  `json:"attendee_count"`
	AbsentCount   int64  `json:"absent_count"`
}
