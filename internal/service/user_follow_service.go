package service

import (
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"Lodestone/internal/pkg/feedcache"
	"Lodestone/internal/pkg/redis"
	"Lodestone/internal/pkg/util"
	"Lodestone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

const followingCacheTTL = time.Hour * 1

type UserFollowService interface {
	GetFollowingIDs(ctx context.Context, userID uint64) ([]uint64, error)
	Follow(ctx context.Context, userID, followingID uint64) error
	Unfollow(ctx context.Context, userID, followingID uint64) error
}

type UserFollowServiceImpl struct {
	userFollowRepo repository.UserFollowRepo
	feedCache      feedcache.FeedCache
}

func NewUserFollowService(userFollowRepo repository.UserFollowRepo, feedCache feedcache.FeedCache) UserFollowService {
	return &UserFollowServiceImpl{
		userFollowRepo: userFollowRepo,
		feedCache:      feedCache,
	}
}

// GetFollowingIDs 获取关注集，优先读 Redis 集合缓存
func (s *UserFollowServiceImpl) GetFollowingIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	key := consts.UserFollowingKey + strconv.FormatUint(userID, 10)

	members, err := redis.GetSet(ctx, key)
	if err == nil && len(members) != 0 {
		return util.StrSliceToUInt64Slice(members)
	}

	ids, err := s.userFollowRepo.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []uint64{}, nil
	}

	go func(cacheKey string, data []uint64) {
		// 使用 Background context 防止 cancel
		rdb := redis.GetRdbClient()
		members := make([]interface{}, 0, len(data))
		for _, id := range data {
			members = append(members, strconv.FormatUint(id, 10))
		}
		pipe := rdb.Pipeline()
		pipe.Del(context.Background(), cacheKey)
		pipe.SAdd(context.Background(), cacheKey, members...)
		pipe.Expire(context.Background(), cacheKey, followingCacheTTL)
		_, _ = pipe.Exec(context.Background())
	}(key, ids)

	return ids, nil
}

// Follow 建立关注关系并失效相关缓存
func (s *UserFollowServiceImpl) Follow(ctx context.Context, userID, followingID uint64) error {
	if userID == followingID {
		return ErrUserFollowSelf
	}

	existing, err := s.userFollowRepo.GetUserFollow(ctx, userID, followingID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserFollowExist
	}

	err = s.userFollowRepo.CreateUserFollow(ctx, &model.UserFollow{
		FollowerID:  userID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return err
	}

	s.invalidate(userID)
	return nil
}

// Unfollow 解除关注关系并失效相关缓存
func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, userID, followingID uint64) error {
	existing, err := s.userFollowRepo.GetUserFollow(ctx, userID, followingID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrFollowNotFound
	}

	err = s.userFollowRepo.DeleteUserFollow(ctx, existing)
	if err != nil {
		return err
	}

	s.invalidate(userID)
	return nil
}

// invalidate 关注关系变化后清掉关注集缓存与该用户的 Feed 缓存。
// 请求内直写路径；binlog 消费者覆盖旁路写入的场景。
func (s *UserFollowServiceImpl) invalidate(userID uint64) {
	go func() {
		ctx := context.Background()
		key := consts.UserFollowingKey + strconv.FormatUint(userID, 10)
		if err := redis.DeleteKey(ctx, key); err != nil {
			log.Warn("关注集缓存失效失败", "userId", userID, "err", err)
		}
		if err := s.feedCache.InvalidateUser(ctx, userID); err != nil {
			log.Warn("Feed 缓存失效失败", "userId", userID, "err", err)
		}
	}()
}
