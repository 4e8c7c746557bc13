package dto

// ── 学生模块 DTO ──

// ImportStudentItem 单条导入学生
type ImportStudentItem struct {
	StudentID string `json:"studentId" binding:"required,max=50"`
	Name      string `json:"name"      binding:"required,max=100"`
	Email     string `json:"email"     binding:"required,email"`
}

// ImportStudentsRequest JSON 数组导入请求
type ImportStudentsRequest struct {
	Students []ImportStudentItem `json:"students" binding:"required,min=1,dive"`
}

// ImportCSVRequest CSV 文本导入请求
// CSV 须含表头 studentId,name,email
type ImportCSVRequest struct {
	CSVText string `json:"csvText" binding:"required"`
}

// ImportResult 导入结果
type ImportResult struct {
	Created int `json:"created"` // 实际新建条数（重复跳过）
	Total   int `json:"total"`   // 输入总条数
}

// StudentResponse 学生信息响应
type StudentResponse struct {
	ID        string `json:"id"`
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ClassID   string `json:"class_id"`
	CreatedAt string `json:"created_at,omitempty"`
}
