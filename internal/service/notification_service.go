package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/dto"
	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
	"github.com/DuongStark/FaceAuthen-Backend/internal/repository"
)

var (
	ErrNotificationNotFound = errors.New("通知不存在")
)

// NotificationService 通知业务接口
type NotificationService interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	List(ctx context.Context, userID string, offset, limit int) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type notificationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, logger: logger}
}

func (s *notificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	notification := &model.Notification{
		UserID:      req.UserID,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		RelatedType: req.RelatedType,
		RelatedID:   req.RelatedID,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Error("创建通知失败", zap.Error(err))
		return nil, err
	}
	resp := toNotificationResponse(notification)
	return &resp, nil
}

func (s *notificationService) List(ctx context.Context, userID string, offset, limit int) ([]dto.NotificationResponse, int64, error) {
	notifications, total, err := s.repo.Notification.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		s.logger.Error("查询通知列表失败", zap.Error(err))
		return nil, 0, err
	}

	resps := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		resps = append(resps, toNotificationResponse(&notifications[i]))
	}
	return resps, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.Notification.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("统计未读通知失败", zap.Error(err))
		return 0, err
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	affected, err := s.repo.Notification.MarkRead(ctx, id, userID, time.Now())
	if err != nil {
		s.logger.Error("标记通知已读失败", zap.Error(err))
		return err
	}
	if affected == 0 {
		// 不存在、非本人或已读：确认记录归属后区分返回
		if _, err := s.repo.Notification.GetByID(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	affected, err := s.repo.Notification.MarkAllRead(ctx, userID, time.Now())
	if err != nil {
		s.logger.Error("全部标记已读失败", zap.Error(err))
		return 0, err
	}
	return affected, nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID string) error {
	affected, err := s.repo.Notification.Delete(ctx, id, userID)
	if err != nil {
		s.logger.Error("删除通知失败", zap.Error(err))
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		formatted := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &formatted
	}
	return resp
}
