package service

import (
	"Lodestone/internal/api/config"
	"Lodestone/internal/api/dto"
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"Lodestone/internal/pkg/feedcache"
	"Lodestone/internal/pkg/redis"
	"Lodestone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type PreferenceService interface {
	GetPreference(ctx context.Context, userID uint64) (*model.UserPreference, error)
	UpdatePreference(ctx context.Context, userID uint64, req *dto.PreferenceDTO) error
	GetBehavior(ctx context.Context, userID uint64) (*model.UserBehavior, error)
	RecordInterest(ctx context.Context, userID uint64, tags []string)
}

type preferenceServiceImpl struct {
	preferenceRepo repository.UserPreferenceRepo
	behaviorRepo   repository.UserBehaviorRepo
	feedCache      feedcache.FeedCache
}

func NewPreferenceService(
	preferenceRepo repository.UserPreferenceRepo,
	behaviorRepo repository.UserBehaviorRepo,
	feedCache feedcache.FeedCache,
) PreferenceService {
	return &preferenceServiceImpl{
		preferenceRepo: preferenceRepo,
		behaviorRepo:   behaviorRepo,
		feedCache:      feedCache,
	}
}

func preferenceTTL() time.Duration {
	return time.Duration(config.Cfg.Feed.PreferenceTTLSec) * time.Second
}

// GetPreference 懒加载偏好画像，Redis 软 TTL 缓存，无画像返回 nil
func (s *preferenceServiceImpl) GetPreference(ctx context.Context, userID uint64) (*model.UserPreference, error) {
	key := consts.UserPreferenceKey + strconv.FormatUint(userID, 10)

	val, err := redis.GetValue(ctx, key)
	if err == nil && val != "" {
		var pref model.UserPreference
		if err = json.Unmarshal([]byte(val), &pref); err == nil {
			return &pref, nil
		}
	}

	pref, err := s.preferenceRepo.GetUserPreference(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, nil
	}

	if payload, err := json.Marshal(pref); err == nil {
		_ = redis.SetWithExpiration(ctx, key, payload, preferenceTTL())
	}
	return pref, nil
}

// UpdatePreference 更新画像并立即失效偏好缓存与该用户的 Feed 缓存
func (s *preferenceServiceImpl) UpdatePreference(ctx context.Context, userID uint64, req *dto.PreferenceDTO) error {
	var pref model.UserPreference
	if err := copier.Copy(&pref, req); err != nil {
		return err
	}
	pref.UserID = userID
	pref.UpdatedAt = time.Now()

	if err := s.preferenceRepo.SaveUserPreference(ctx, &pref); err != nil {
		return err
	}

	key := consts.UserPreferenceKey + strconv.FormatUint(userID, 10)
	if err := redis.DeleteKey(ctx, key); err != nil {
		log.Warn("偏好缓存失效失败", "userId", userID, "err", err)
	}
	if err := s.feedCache.InvalidateUser(ctx, userID); err != nil {
		log.Warn("Feed 缓存失效失败", "userId", userID, "err", err)
	}
	return nil
}

// GetBehavior 获取行为画像，上游离线产出，这里只读并短缓存
func (s *preferenceServiceImpl) GetBehavior(ctx context.Context, userID uint64) (*model.UserBehavior, error) {
	key := consts.UserBehaviorKey + strconv.FormatUint(userID, 10)

	val, err := redis.GetValue(ctx, key)
	if err == nil && val != "" {
		var behavior model.UserBehavior
		if err = json.Unmarshal([]byte(val), &behavior); err == nil {
			return &behavior, nil
		}
	}

	behavior, err := s.behaviorRepo.GetUserBehavior(ctx, userID)
	if err != nil {
		return nil, err
	}
	if behavior == nil {
		return nil, nil
	}

	if payload, err := json.Marshal(behavior); err == nil {
		_ = redis.SetWithExpiration(ctx, key, payload, preferenceTTL())
	}
	return behavior, nil
}

// RecordInterest 累计兴趣信号到 Redis 有序集合并标记脏用户，
// 由每日同步任务落库到画像的 interests 字段。尽力而为，失败只记日志。
func (s *preferenceServiceImpl) RecordInterest(ctx context.Context, userID uint64, tags []string) {
	if len(tags) == 0 {
		return
	}

	userIDStr := strconv.FormatUint(userID, 10)
	key := consts.UserInterestKey + userIDStr

	rdb := redis.GetRdbClient()
	pipe := rdb.Pipeline()
	for _, tag := range tags {
		pipe.ZIncrBy(ctx, key, 1, tag)
	}
	pipe.SAdd(ctx, consts.UserInterestDirtyKey, userIDStr)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn("兴趣信号记录失败", "userId", userID, "err", err)
	}
}
