package job

import (
	"Lodestone/internal/pkg/feedcache"
	"Lodestone/internal/pkg/logger"
	"context"
	log "log/slog"

	"github.com/google/uuid"
)

// FeedCacheSweepJob 定期清理 Feed 缓存键注册表中的失效引用。
// 缓存值本身由 TTL 过期，注册表不清理会随用户量缓慢膨胀。
type FeedCacheSweepJob struct {
	feedCache feedcache.FeedCache
}

func NewFeedCacheSweepJob(feedCache feedcache.FeedCache) *FeedCacheSweepJob {
	return &FeedCacheSweepJob{
		feedCache: feedCache,
	}
}

func (s *FeedCacheSweepJob) Run() {
	traceID := "job-feed-sweep-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	removed, err := s.feedCache.Sweep(ctx)
	if err != nil {
		log.ErrorContext(ctx, "feed cache sweep error", "err", err)
		return
	}
	if removed > 0 {
		log.InfoContext(ctx, "FeedCacheSweepJob finished", "removed", removed)
	}
}
