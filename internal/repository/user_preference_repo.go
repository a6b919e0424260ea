package repository

import (
	"Lodestone/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserPreferenceRepo interface {
	GetUserPreference(ctx context.Context, userID uint64) (*model.UserPreference, error)
	SaveUserPreference(ctx context.Context, pref *model.UserPreference) error
	SaveInterests(ctx context.Context, userID uint64, interests model.StringList) error
}

type userPreferenceRepoImpl struct {
	db *gorm.DB
}

func NewUserPreferenceRepository(db *gorm.DB) UserPreferenceRepo {
	return &userPreferenceRepoImpl{db: db}
}

// GetUserPreference 根据用户 ID 获取偏好画像
func (r *userPreferenceRepoImpl) GetUserPreference(ctx context.Context, userID uint64) (*model.UserPreference, error) {
	var pref model.UserPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &pref, nil
}

// SaveUserPreference 保存用户偏好画像
func (r *userPreferenceRepoImpl) SaveUserPreference(ctx context.Context, pref *model.UserPreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type_affinity", "interests", "author_affinity", "latitude", "longitude", "updated_at"}),
	}).Create(pref).Error
}

// SaveInterests 只更新兴趣标签快照，兴趣同步任务使用
func (r *userPreferenceRepoImpl) SaveInterests(ctx context.Context, userID uint64, interests model.StringList) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"interests", "updated_at"}),
	}).Create(&model.UserPreference{
		UserID:    userID,
		Interests: interests,
	}).Error
}
