package dto

// ── 通知模块 DTO ──

// CreateNotificationRequest 创建通知（管理端）
type CreateNotificationRequest struct {
	UserID      string  `json:"user_id" binding:"required,uuid"`
	Type        string  `json:"type"    binding:"required,oneof=SESSION_REMINDER GENERAL"`
	Title       string  `json:"title"   binding:"required,max=200"`
	Message     string  `json:"message" binding:"required,max=1000"`
	RelatedType *string `json:"related_type" binding:"omitempty,max=50"`
	RelatedID   *string `json:"related_id"   binding:"omitempty,uuid"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	IsRead      bool    `json:"is_read"`
	ReadAt      *string `json:"read_at,omitempty"`
	RelatedType *string `json:"related_type,omitempty"`
	RelatedID   *string `json:"related_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
