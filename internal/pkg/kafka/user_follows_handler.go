package kafka

import (
	"Lodestone/internal/pkg/consts"
	"Lodestone/internal/pkg/feedcache"
	"Lodestone/internal/pkg/redis"
	"context"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
)

// UserFollowsHandler 消费 user_follows 表的 binlog 变更。
// 关注关系一变，关注者的关注集缓存与 Feed 缓存都过期了，
// 这里把它们清掉，下一次请求即触发强制重算。覆盖旁路写库的场景。
type UserFollowsHandler struct {
	feedCache feedcache.FeedCache
}

func NewUserFollowsHandler(feedCache feedcache.FeedCache) *UserFollowsHandler {
	return &UserFollowsHandler{
		feedCache: feedCache,
	}
}

func (s *UserFollowsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer setup")
	return nil
}

func (s *UserFollowsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user follows consumer cleanup")
	return nil
}

func (s *UserFollowsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-user-follows consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-user-follows process batch error", "err", err)
		return err
	}
	log.Info("topic-user-follows consume claim end")
	return nil
}

func (s *UserFollowsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "user_follows")
	if err != nil || canalMsg == nil {
		return nil
	}
	if canalMsg.Type != INSERT && canalMsg.Type != DELETE {
		return nil
	}

	for _, row := range canalMsg.Data {
		followerID := StrToUint64(row["follower_id"])
		if followerID == 0 {
			continue
		}

		followingKey := consts.UserFollowingKey + strconv.FormatUint(followerID, 10)
		if err = redis.DeleteKey(ctx, followingKey); err != nil {
			log.Error("invalidate following cache error", "follower_id", followerID, "err", err)
			return err
		}
		if err = s.feedCache.InvalidateUser(ctx, followerID); err != nil {
			log.Error("invalidate feed cache error", "follower_id", followerID, "err", err)
			return err
		}
	}
	return nil
}
