package feedcache

import (
	"Lodestone/internal/api/dto"
	"Lodestone/internal/pkg/consts"
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"
)

// FeedCache Feed 结果缓存抽象。所有实现都必须是尽力而为：
// 读写失败只会退化为重新计算，不会向调用方抛错误语义。
type FeedCache interface {
	Get(ctx context.Context, key string) (*dto.FeedDTO, error)
	Set(ctx context.Context, userID uint64, key string, feed *dto.FeedDTO, ttl time.Duration) error
	InvalidateUser(ctx context.Context, userID uint64) error
	Sweep(ctx context.Context) (int, error)
}

// Key 由用户与请求选项派生缓存键。ForceRefresh 只影响读路径，不参与键。
func Key(userID uint64, opts dto.FeedOptions) string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d|%d|%t|%t", userID, opts.Limit, opts.Ads, opts.Sponsored)
	return consts.FeedCacheKey + strconv.FormatUint(userID, 10) + ":" + strconv.FormatUint(h.Sum64(), 16)
}
