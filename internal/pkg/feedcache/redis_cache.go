package feedcache

import (
	"Lodestone/internal/api/dto"
	"Lodestone/internal/pkg/consts"
	"Lodestone/internal/pkg/redis"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

type redisFeedCache struct{}

func NewRedisFeedCache() FeedCache {
	return &redisFeedCache{}
}

// Get 命中返回反序列化后的 Feed，未命中返回 nil
func (s *redisFeedCache) Get(ctx context.Context, key string) (*dto.FeedDTO, error) {
	val, err := redis.GetValue(ctx, key)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil
	}

	var feed dto.FeedDTO
	if err = json.Unmarshal([]byte(val), &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// Set 写入结果并登记到用户键注册表，注册表过期时间取两倍 TTL
func (s *redisFeedCache) Set(ctx context.Context, userID uint64, key string, feed *dto.FeedDTO, ttl time.Duration) error {
	payload, err := json.Marshal(feed)
	if err != nil {
		return err
	}

	registryKey := consts.FeedCacheRegistryKey + strconv.FormatUint(userID, 10)

	pipe := redis.GetRdbClient().Pipeline()
	pipe.Set(ctx, key, payload, ttl)
	pipe.SAdd(ctx, registryKey, key)
	pipe.Expire(ctx, registryKey, 2*ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateUser 删除某用户的全部缓存条目，关注关系变更时触发
func (s *redisFeedCache) InvalidateUser(ctx context.Context, userID uint64) error {
	registryKey := consts.FeedCacheRegistryKey + strconv.FormatUint(userID, 10)

	keys, err := redis.GetSet(ctx, registryKey)
	if err != nil {
		return err
	}

	pipe := redis.GetRdbClient().Pipeline()
	for _, k := range keys {
		pipe.Del(ctx, k)
	}
	pipe.Del(ctx, registryKey)
	_, err = pipe.Exec(ctx)
	return err
}

// Sweep 清理注册表中已过期的条目引用，返回清理数量。
// 值本身由 Redis TTL 过期，这里只是防止注册表无限增长。
func (s *redisFeedCache) Sweep(ctx context.Context) (int, error) {
	rdb := redis.GetRdbClient()
	removed := 0

	var cursor uint64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, consts.FeedCacheRegistryKey+"*", 100).Result()
		if err != nil {
			return removed, err
		}

		for _, registryKey := range keys {
			members, err := rdb.SMembers(ctx, registryKey).Result()
			if err != nil {
				continue
			}
			for _, member := range members {
				exists, err := redis.Exists(ctx, member)
				if err != nil {
					continue
				}
				if !exists {
					if err = redis.SRem(ctx, registryKey, member); err == nil {
						removed++
					}
				}
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return removed, nil
}
