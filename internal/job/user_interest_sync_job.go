package job

import (
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"Lodestone/internal/pkg/logger"
	"Lodestone/internal/pkg/redis"
	"Lodestone/internal/pkg/util"
	"Lodestone/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// interestTopN 落库时保留的兴趣标签数量
const interestTopN = 50

// UserInterestSyncJob 把 Redis 中累计的兴趣信号批量落库到用户画像，
// 只处理打过脏标记的用户。个性化流的话题重合度依赖这份快照。
type UserInterestSyncJob struct {
	preferenceRepo repository.UserPreferenceRepo
}

func NewUserInterestSyncJob(preferenceRepo repository.UserPreferenceRepo) *UserInterestSyncJob {
	return &UserInterestSyncJob{
		preferenceRepo: preferenceRepo,
	}
}

func (s *UserInterestSyncJob) Run() {
	traceID := "job-interest-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 多实例部署时同一时刻只允许一个实例落库
	locked, err := redis.TryLock(ctx, consts.UserInterestSyncLock, traceID, 10*time.Minute, 0)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.UserInterestSyncLock, traceID)

	processingKey := consts.UserInterestDirtyKey + ":processing"
	if err = redis.Rename(ctx, consts.UserInterestDirtyKey, processingKey); err != nil {
		return
	}

	tempSet, err := redis.GetSet(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "get interest dirty set error", "err", err)
		return
	}

	userIDs, err := util.StrSliceToUInt64Slice(tempSet)
	if err != nil {
		log.ErrorContext(ctx, "convert interest set to int slice error", "err", err)
		return
	}

	log.InfoContext(ctx, "UserInterestSyncJob processing", "user_count", len(userIDs))

	for _, uid := range userIDs {
		uidStr := strconv.FormatUint(uid, 10)
		interestKey := consts.UserInterestKey + uidStr

		zObjects, err := redis.ZRevRangeWithScores(ctx, interestKey, 0, interestTopN-1)
		if err != nil {
			log.ErrorContext(ctx, "fetch zset error", "uid", uid, "err", err)
			continue
		}

		if len(zObjects) == 0 {
			continue
		}

		interests := make(model.StringList, 0, len(zObjects))
		for _, obj := range zObjects {
			if tag, ok := obj.Member.(string); ok {
				interests = append(interests, tag)
			}
		}

		err = s.preferenceRepo.SaveInterests(ctx, uid, interests)
		if err != nil {
			log.ErrorContext(ctx, "save user interests to mysql error", "uid", uid, "err", err)
			continue
		}

		// 只保留头部标签，防止长尾无限膨胀
		if err = redis.ZRemRangeByRank(ctx, interestKey, 0, -interestTopN-1); err != nil {
			log.WarnContext(ctx, "trim interest zset error", "uid", uid, "err", err)
		}
	}

	err = redis.DeleteKey(ctx, processingKey)
	if err != nil {
		log.ErrorContext(ctx, "delete interest processing set error", "err", err)
	}

	log.InfoContext(ctx, "UserInterestSyncJob finished", "processed_count", len(userIDs))
}
