package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
)

// SessionRepository 签到会话数据访问接口
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	// GetActiveByClass 返回班级当前未结束的会话，不存在时返回 gorm.ErrRecordNotFound
	GetActiveByClass(ctx context.Context, classID string) (*model.Session, error)
	GetByScheduleSession(ctx context.Context, scheduleSessionID string) (*model.Session, error)
	ListByClass(ctx context.Context, classID string, offset, limit int) ([]model.Session, int64, error)
	Update(ctx context.Context, session *model.Session) error
}

// sessionRepo SessionRepository 的 GORM 实现
type sessionRepo struct {
	db *gorm.DB
}

// NewSessionRepo 创建 SessionRepository 实例
func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) GetActiveByClass(ctx context.Context, classID string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND end_at IS NULL", classID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) GetByScheduleSession(ctx context.Context, scheduleSessionID string) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Where("schedule_session_id = ?", scheduleSessionID).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ListByClass(ctx context.Context, classID string, offset, limit int) ([]model.Session, int64, error) {
	var sessions []model.Session
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("class_id = ?", classID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("start_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

func (r *sessionRepo) Update(ctx context.Context, session *model.Session) error {
	return r.db.WithContext(ctx).Save(session).Error
}
