package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/DuongStark/FaceAuthen-Backend/internal/model"
)

// IPConfigRepository IP 校验配置数据访问接口
// ip_configs 为单行配置表：GetSingleton 取首行，Upsert 不存在则建
type IPConfigRepository interface {
	GetSingleton(ctx context.Context) (*model.IPConfig, error)
	Upsert(ctx context.Context, config *model.IPConfig) error
}

// ipConfigRepo IPConfigRepository 的 GORM 实现
type ipConfigRepo struct {
	db *gorm.DB
}

// NewIPConfigRepo 创建 IPConfigRepository 实例
func NewIPConfigRepo(db *gorm.DB) IPConfigRepository {
	return &ipConfigRepo{db: db}
}

func (r *ipConfigRepo) GetSingleton(ctx context.Context) (*model.IPConfig, error) {
	var config model.IPConfig
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *ipConfigRepo) Upsert(ctx context.Context, config *model.IPConfig) error {
	if config.ID == "" {
		return r.db.WithContext(ctx).Create(config).Error
	}
	return r.db.WithContext(ctx).Save(config).Error
}
