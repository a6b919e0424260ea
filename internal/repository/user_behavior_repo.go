package repository

import (
	"Lodestone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserBehaviorRepo interface {
	GetUserBehavior(ctx context.Context, userID uint64) (*model.UserBehavior, error)
}

type userBehaviorRepoImpl struct {
	db *gorm.DB
}

func NewUserBehaviorRepository(db *gorm.DB) UserBehaviorRepo {
	return &userBehaviorRepoImpl{db: db}
}

// GetUserBehavior 获取用户行为聚合指标，缺失时返回 nil
func (r *userBehaviorRepoImpl) GetUserBehavior(ctx context.Context, userID uint64) (*model.UserBehavior, error) {
	var behavior model.UserBehavior
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&behavior).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &behavior, nil
}
