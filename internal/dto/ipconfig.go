package dto

// ── IP 白名单模块 DTO ──

// CreateAllowedIPRequest 新增白名单条目
// type=single 时 ip_address 为点分 IPv4；type=range 时为 CIDR（如 10.0.0.0/8）
type CreateAllowedIPRequest struct {
	IPAddress   string `json:"ip_address"  binding:"required,max=50"`
	Type        string `json:"type"        binding:"required,oneof=single range"`
	Description string `json:"description" binding:"omitempty,max=200"`
}

// UpdateAllowedIPRequest 更新白名单条目
type UpdateAllowedIPRequest struct {
	IPAddress   *string `json:"ip_address"  binding:"omitempty,max=50"`
	Type        *string `json:"type"        binding:"omitempty,oneof=single range"`
	Description *string `json:"description" binding:"omitempty,max=200"`
	IsActive    *bool   `json:"is_active"`
}

// AllowedIPResponse 白名单条目响应
type AllowedIPResponse struct {
	ID          string `json:"id"`
	IPAddress   string `json:"ip_address"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// UpdateIPConfigRequest 更新 IP 校验总开关
type UpdateIPConfigRequest struct {
	Enabled      *bool   `json:"enabled"`
	ErrorMessage *string `json:"error_message" binding:"omitempty,max=200"`
}

// IPConfigResponse IP 校验配置响应
type IPConfigResponse struct {
	Enabled      bool   `json:"enabled"`
	ErrorMessage string `json:"error_message"`
}

// IPCheckResponse 当前请求 IP 的校验结果
type IPCheckResponse struct {
	ClientIP string `json:"client_ip"`
	Allowed  bool   `json:"allowed"`
	Enabled  bool   `json:"enabled"`
}
