package repository

import (
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"context"
	"time"

	"gorm.io/gorm"
)

type PostRepo interface {
	GetRecentPublic(ctx context.Context, limit int) ([]*model.Post, error)
	GetByAuthors(ctx context.Context, authorIDs []uint64, since time.Time, limit int) ([]*model.Post, error)
	GetRecentSince(ctx context.Context, since time.Time, limit int) ([]*model.Post, error)
	GetByTypes(ctx context.Context, types []string, since time.Time, limit int) ([]*model.Post, error)
	GetNearby(ctx context.Context, lat, lon, radiusDeg float64, limit int) ([]*model.Post, error)
	GetSponsored(ctx context.Context, limit int) ([]*model.Post, error)
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

// published 发布状态的基础过滤
func (s *PostRepoImpl) published(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("status = ? AND is_deleted = ?", consts.PostStatusNormal, false)
}

// GetRecentPublic 最新公开内容，降级流水线使用
func (s *PostRepoImpl) GetRecentPublic(ctx context.Context, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.published(ctx).
		Where("visibility = ?", consts.VisibilityPublic).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByAuthors 按作者集合查询，关注流使用
func (s *PostRepoImpl) GetByAuthors(ctx context.Context, authorIDs []uint64, since time.Time, limit int) ([]*model.Post, error) {
	if len(authorIDs) == 0 {
		return []*model.Post{}, nil
	}
	var posts []*model.Post
	err := s.published(ctx).
		Where("user_id IN ?", authorIDs).
		Where("created_at > ?", since).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetRecentSince 指定时间窗内的公开内容，个性化流候选
func (s *PostRepoImpl) GetRecentSince(ctx context.Context, since time.Time, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.published(ctx).
		Where("visibility = ?", consts.VisibilityPublic).
		Where("created_at > ?", since).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByTypes 按内容类型查询，视频/音频流使用
func (s *PostRepoImpl) GetByTypes(ctx context.Context, types []string, since time.Time, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.published(ctx).
		Where("visibility = ?", consts.VisibilityPublic).
		Where("type IN ?", types).
		Where("created_at > ?", since).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetNearby 经纬度包围盒查询，附近流使用
func (s *PostRepoImpl) GetNearby(ctx context.Context, lat, lon, radiusDeg float64, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.published(ctx).
		Where("visibility = ?", consts.VisibilityPublic).
		Where("latitude BETWEEN ? AND ?", lat-radiusDeg, lat+radiusDeg).
		Where("longitude BETWEEN ? AND ?", lon-radiusDeg, lon+radiusDeg).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetSponsored 赞助内容专用查询
func (s *PostRepoImpl) GetSponsored(ctx context.Context, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.published(ctx).
		Where("type = ?", consts.ContentTypeSponsored).
		Order("created_at desc").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}
