package service

import (
	"Lodestone/internal/api/config"
	"Lodestone/internal/api/dto"
	"Lodestone/internal/pkg/adclient"
	"Lodestone/internal/pkg/consts"
	"Lodestone/internal/pkg/es"
	"Lodestone/internal/pkg/feedcache"
	"Lodestone/internal/pkg/mongo"
	"Lodestone/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"math/rand"
	"time"
)

// interestSampleSize 每次生成后记录兴趣信号的头部条目数
const interestSampleSize = 5

type FeedService interface {
	GetSmartFeed(ctx context.Context, userID uint64, opts dto.FeedOptions) (*dto.FeedDTO, error)
	RefreshFeed(ctx context.Context, userID uint64) (*dto.FeedDTO, error)
}

type feedService struct {
	postRepo      repository.PostRepo
	followService UserFollowService
	prefService   PreferenceService
	candidateRepo es.FeedCandidateRepo
	adProvider    adclient.AdProvider
	feedCache     feedcache.FeedCache
	feedLogRepo   mongo.FeedLogRepo

	// 可注入的时钟与随机源，离线回放时替换
	now  func() time.Time
	rand func() float64
}

func NewFeedService(
	postRepo repository.PostRepo,
	followService UserFollowService,
	prefService PreferenceService,
	candidateRepo es.FeedCandidateRepo,
	adProvider adclient.AdProvider,
	feedCache feedcache.FeedCache,
	feedLogRepo mongo.FeedLogRepo,
) FeedService {
	return &feedService{
		postRepo:      postRepo,
		followService: followService,
		prefService:   prefService,
		candidateRepo: candidateRepo,
		adProvider:    adProvider,
		feedCache:     feedCache,
		feedLogRepo:   feedLogRepo,
		now:           time.Now,
		rand:          rand.Float64,
	}
}

func (s *feedService) cfg() *config.FeedConfig {
	return &config.Cfg.Feed
}

// GetSmartFeed 生成个性化 Feed。
// 缓存命中直接短路；完整流水线失败时退回最新内容降级流；
// 降级也失败才把错误抛给调用方。
func (s *feedService) GetSmartFeed(ctx context.Context, userID uint64, opts dto.FeedOptions) (*dto.FeedDTO, error) {
	opts = s.normalizeOptions(opts)
	cacheKey := feedcache.Key(userID, opts)

	if !opts.ForceRefresh {
		cached, err := s.feedCache.Get(ctx, cacheKey)
		if err != nil {
			log.Warn("Feed 缓存读取失败", "userId", userID, "err", err)
		} else if cached != nil && cached.Metadata != nil {
			cached.Metadata.Cached = true
			return cached, nil
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg().TimeoutMs)*time.Millisecond)
	defer cancel()

	feed, genErr := s.generate(genCtx, userID, opts)
	if genErr != nil {
		log.Warn("Feed 生成失败，进入降级路径", "userId", userID, "err", genErr)
		feed, err := s.fallbackFeed(ctx, userID, opts, genErr)
		if err != nil {
			log.Error("降级路径同样失败", "userId", userID, "err", err)
			return nil, ErrFeedUnavailable
		}
		s.logGeneration(userID, feed)
		return feed, nil
	}

	if err := s.feedCache.Set(ctx, userID, cacheKey, feed, time.Duration(s.cfg().CacheTTLSec)*time.Second); err != nil {
		log.Warn("Feed 缓存写入失败", "userId", userID, "err", err)
	}
	s.recordTopInterests(userID, feed)
	s.logGeneration(userID, feed)
	return feed, nil
}

// RefreshFeed 强制重新生成并回填缓存
func (s *feedService) RefreshFeed(ctx context.Context, userID uint64) (*dto.FeedDTO, error) {
	return s.GetSmartFeed(ctx, userID, dto.FeedOptions{
		ForceRefresh: true,
		Ads:          true,
		Sponsored:    true,
	})
}

func (s *feedService) normalizeOptions(opts dto.FeedOptions) dto.FeedOptions {
	if opts.Limit <= 0 {
		opts.Limit = s.cfg().DefaultLimit
	}
	if opts.Limit > s.cfg().MaxLimit {
		opts.Limit = s.cfg().MaxLimit
	}
	return opts
}

// generate 完整流水线：权重 → 并发抓取 → 合并排序 → 多样性 → 商业化。
// 流水线任何环节 panic 都转为普通错误，让调用方走降级路径而不是断开连接。
func (s *feedService) generate(ctx context.Context, userID uint64, opts dto.FeedOptions) (feed *dto.FeedDTO, genErr error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Feed 生成流水线异常", "userId", userID, "err", r)
			feed = nil
			genErr = fmt.Errorf("生成流水线异常: %v", r)
		}
	}()

	pref, err := s.prefService.GetPreference(ctx, userID)
	if err != nil {
		log.Warn("偏好画像读取失败，按空画像继续", "userId", userID, "err", err)
		pref = nil
	}
	behavior, err := s.prefService.GetBehavior(ctx, userID)
	if err != nil {
		log.Warn("行为画像读取失败，按默认权重继续", "userId", userID, "err", err)
		behavior = nil
	}

	weights := calculateLaneWeights(s.cfg(), behavior, s.now())
	lanes := s.fetchAllLanes(ctx, userID, pref, weights)

	merged := aggregateLanes(lanes, weights)
	if len(merged) == 0 {
		return nil, ErrNoFeedCandidates
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	accepted := applyDiversity(s.cfg(), merged)
	if len(accepted) > opts.Limit {
		accepted = accepted[:opts.Limit]
	}

	list := s.monetize(ctx, userID, accepted, opts)

	return &dto.FeedDTO{
		List: list,
		Metadata: &dto.FeedMetadataDTO{
			AlgorithmVersion: consts.AlgorithmVersion,
			LaneWeights:      weights,
			GeneratedAt:      s.now(),
		},
	}, nil
}

// fallbackFeed 最小可用 Feed：最新公开内容，不打分、不限流、不商业化
func (s *feedService) fallbackFeed(ctx context.Context, userID uint64, opts dto.FeedOptions, cause error) (*dto.FeedDTO, error) {
	posts, err := s.postRepo.GetRecentPublic(ctx, opts.Limit)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.FeedItemDTO, 0, len(posts))
	for i, post := range posts {
		item := toFeedItem(&ScoredItem{Post: post})
		item.Position = i + 1
		list = append(list, item)
	}

	return &dto.FeedDTO{
		List: list,
		Metadata: &dto.FeedMetadataDTO{
			AlgorithmVersion: consts.AlgorithmVersion,
			IsFallback:       true,
			Error:            cause.Error(),
			GeneratedAt:      s.now(),
		},
	}, nil
}

// logGeneration 把生成记录异步写入分析库，失败只记日志
func (s *feedService) logGeneration(userID uint64, feed *dto.FeedDTO) {
	entry := &mongo.FeedLog{
		UserID:           userID,
		FeedSize:         len(feed.List),
		LaneWeights:      feed.Metadata.LaneWeights,
		AlgorithmVersion: feed.Metadata.AlgorithmVersion,
		IsFallback:       feed.Metadata.IsFallback,
		CreatedAt:        s.now(),
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("分析日志写入异常退出", "err", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.feedLogRepo.SaveFeedLog(ctx, entry); err != nil {
			log.Warn("分析日志写入失败", "userId", userID, "err", err)
		}
	}()
}

// recordTopInterests 取头部条目的标签记录兴趣信号
func (s *feedService) recordTopInterests(userID uint64, feed *dto.FeedDTO) {
	var tags []string
	count := 0
	for _, item := range feed.List {
		if item.Ad != nil || item.Type == consts.ContentTypeAd {
			continue
		}
		tags = append(tags, item.Tags...)
		count++
		if count >= interestSampleSize {
			break
		}
	}
	if len(tags) == 0 {
		return
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("兴趣信号记录异常退出", "err", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.prefService.RecordInterest(ctx, userID, tags)
	}()
}
