package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
)

// AllowedIPRepository IP 白名单数据访问接口
type AllowedIPRepository interface {
	Create(ctx context.Context, entry *model.AllowedIP) error
	GetByID(ctx context.Context, id string) (*model.AllowedIP, error)
	List(ctx context.Context) ([]model.AllowedIP, error)
	// ListActive 返回启用中的白名单条目，供准入校验使用
	ListActive(ctx context.Context) ([]model.AllowedIP, error)
	Update(ctx context.Context, entry *model.AllowedIP) error
	Delete(ctx context.Context, id string) error
}

// allowedIPRepo AllowedIPRepository 的 GORM 实现
type allowedIPRepo struct {
	db *gorm.DB
}

// NewAllowedIPRepo 创建 AllowedIPRepository 实例
func NewAllowedIPRepo(db *gorm.DB) AllowedIPRepository {
	return &allowedIPRepo{db: db}
}

func (r *allowedIPRepo) Create(ctx context.Context, entry *model.AllowedIP) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *allowedIPRepo) GetByID(ctx context.Context, id string) (*model.AllowedIP, error) {
	var entry model.AllowedIP
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *allowedIPRepo) List(ctx context.Context) ([]model.AllowedIP, error) {
	var entries []model.AllowedIP
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *allowedIPRepo) ListActive(ctx context.Context) ([]model.AllowedIP, error) {
	var entries []model.AllowedIP
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *allowedIPRepo) Update(ctx context.Context, entry *model.AllowedIP) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *allowedIPRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&model.AllowedIP{}, "id = ?", id).Error
}
