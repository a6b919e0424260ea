package service

import (
	"Lodestone/internal/api/config"
	"Lodestone/internal/api/dto"
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"Lodestone/internal/pkg/es"
	"Lodestone/internal/pkg/mongo"
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

type fakeFollowService struct {
	ids []uint64
	err error
}

func (f *fakeFollowService) GetFollowingIDs(_ context.Context, _ uint64) ([]uint64, error) {
	return f.ids, f.err
}

func (f *fakeFollowService) Follow(_ context.Context, _, _ uint64) error   { return nil }
func (f *fakeFollowService) Unfollow(_ context.Context, _, _ uint64) error { return nil }

type fakePrefService struct {
	pref     *model.UserPreference
	behavior *model.UserBehavior
}

func (f *fakePrefService) GetPreference(_ context.Context, _ uint64) (*model.UserPreference, error) {
	return f.pref, nil
}

func (f *fakePrefService) UpdatePreference(_ context.Context, _ uint64, _ *dto.PreferenceDTO) error {
	return nil
}

func (f *fakePrefService) GetBehavior(_ context.Context, _ uint64) (*model.UserBehavior, error) {
	return f.behavior, nil
}

func (f *fakePrefService) RecordInterest(_ context.Context, _ uint64, _ []string) {}

type fakeCandidateRepo struct{}

func (f *fakeCandidateRepo) TrendingWindow(_ context.Context, _ time.Time, _ int) ([]*es.PostES, error) {
	return nil, nil
}

func (f *fakeCandidateRepo) DiscoverByTopics(_ context.Context, _ []string, _ []uint64, _ int) ([]*es.PostES, error) {
	return nil, nil
}

type fakeFeedCache struct {
	mu      sync.Mutex
	cached  *dto.FeedDTO
	getErr  error
	gets    int
	setKeys []string
}

func (f *fakeFeedCache) Get(_ context.Context, _ string) (*dto.FeedDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	return f.cached, f.getErr
}

func (f *fakeFeedCache) Set(_ context.Context, _ uint64, key string, _ *dto.FeedDTO, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setKeys = append(f.setKeys, key)
	return nil
}

func (f *fakeFeedCache) InvalidateUser(_ context.Context, _ uint64) error { return nil }
func (f *fakeFeedCache) Sweep(_ context.Context) (int, error)             { return 0, nil }

type fakeFeedLogRepo struct{}

func (f *fakeFeedLogRepo) SaveFeedLog(_ context.Context, _ *mongo.FeedLog) error { return nil }

func (f *fakeFeedLogRepo) GetRecentByUser(_ context.Context, _ uint64, _ int) ([]*mongo.FeedLog, error) {
	return nil, nil
}

// roundTripFeedCache 走真实序列化路径的缓存替身，读写都经过 JSON 编解码
type roundTripFeedCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func (f *roundTripFeedCache) Get(_ context.Context, key string) (*dto.FeedDTO, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.store[key]
	if !ok {
		return nil, nil
	}
	var feed dto.FeedDTO
	if err := json.Unmarshal(payload, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (f *roundTripFeedCache) Set(_ context.Context, _ uint64, key string, feed *dto.FeedDTO, _ time.Duration) error {
	payload, err := json.Marshal(feed)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store == nil {
		f.store = make(map[string][]byte)
	}
	f.store[key] = payload
	return nil
}

func (f *roundTripFeedCache) InvalidateUser(_ context.Context, _ uint64) error { return nil }
func (f *roundTripFeedCache) Sweep(_ context.Context) (int, error)             { return 0, nil }

type feedFixture struct {
	svc   *feedService
	repo  *fakePostRepo
	cache *fakeFeedCache
	ads   *fakeAdProvider
}

func newFeedFixture() *feedFixture {
	useTestConfig()

	repo := &fakePostRepo{}
	cache := &fakeFeedCache{}
	ads := &fakeAdProvider{}
	svc := &feedService{
		postRepo:      repo,
		followService: &fakeFollowService{},
		prefService:   &fakePrefService{},
		candidateRepo: &fakeCandidateRepo{},
		adProvider:    ads,
		feedCache:     cache,
		feedLogRepo:   &fakeFeedLogRepo{},
		now:           func() time.Time { return daytime },
		rand:          func() float64 { return 1.0 },
	}
	return &feedFixture{svc: svc, repo: repo, cache: cache, ads: ads}
}

func publishedPost(id, author uint64, contentType string, age time.Duration) *model.Post {
	return &model.Post{
		ID:         id,
		UserID:     author,
		Type:       contentType,
		Visibility: consts.VisibilityPublic,
		Status:     consts.PostStatusNormal,
		CreatedAt:  daytime.Add(-age),
	}
}

func TestGetSmartFeed_CacheHit(t *testing.T) {
	fx := newFeedFixture()
	fx.cache.cached = &dto.FeedDTO{
		List:     []*dto.FeedItemDTO{{ID: 1, Position: 1}},
		Metadata: &dto.FeedMetadataDTO{AlgorithmVersion: consts.AlgorithmVersion},
	}

	feed, err := fx.svc.GetSmartFeed(context.Background(), 1, dto.FeedOptions{})
	if err != nil {
		t.Fatalf("缓存命中不应出错: %v", err)
	}
	if !feed.Metadata.Cached {
		t.Fatal("缓存命中应标记 Cached")
	}
	if len(fx.cache.setKeys) != 0 {
		t.Fatal("缓存命中不应回写缓存")
	}
}

func TestGetSmartFeed_ForceRefreshSkipsCacheRead(t *testing.T) {
	fx := newFeedFixture()
	fx.cache.cached = &dto.FeedDTO{
		List:     []*dto.FeedItemDTO{{ID: 1}},
		Metadata: &dto.FeedMetadataDTO{},
	}
	fx.svc.followService = &fakeFollowService{ids: []uint64{2}}
	fx.repo.byAuthors = []*model.Post{
		publishedPost(1, 2, consts.ContentTypeText, time.Hour),
	}

	feed, err := fx.svc.GetSmartFeed(context.Background(), 1, dto.FeedOptions{ForceRefresh: true})
	if err != nil {
		t.Fatalf("强制刷新不应出错: %v", err)
	}
	if fx.cache.gets != 0 {
		t.Fatal("强制刷新不应读缓存")
	}
	if feed.Metadata.Cached {
		t.Fatal("强制刷新结果不应带缓存标记")
	}
}

func TestGetSmartFeed_GeneratesAndCaches(t *testing.T) {
	fx := newFeedFixture()
	fx.svc.followService = &fakeFollowService{ids: []uint64{2, 3}}
	fx.repo.byAuthors = []*model.Post{
		publishedPost(1, 2, consts.ContentTypeText, time.Hour),
		publishedPost(2, 3, consts.ContentTypeImage, 2*time.Hour),
	}

	feed, err := fx.svc.GetSmartFeed(context.Background(), 1, dto.FeedOptions{Limit: 10})
	if err != nil {
		t.Fatalf("生成不应出错: %v", err)
	}
	if feed.Metadata.IsFallback {
		t.Fatal("有候选时不应走降级路径")
	}
	if len(feed.List) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(feed.List))
	}
	for i, item := range feed.List {
		if item.Position != i+1 {
			t.Fatalf("序号应从 1 连续递增，索引 %d 的序号为 %d", i, item.Position)
		}
		if item.Source != consts.LaneFollowing {
			t.Fatalf("候选应全部来自关注流，实际 %s", item.Source)
		}
	}
	if sum := weightSum(feed.Metadata.LaneWeights); sum < 0.999 || sum > 1.001 {
		t.Fatalf("元信息里的权重和应为 1，实际 %f", sum)
	}
	if len(fx.cache.setKeys) != 1 {
		t.Fatalf("生成结果应回写缓存 1 次，实际 %d 次", len(fx.cache.setKeys))
	}
}

func TestGetSmartFeed_FallbackWhenNoCandidates(t *testing.T) {
	fx := newFeedFixture()
	fx.repo.recent = []*model.Post{
		publishedPost(11, 5, consts.ContentTypeText, time.Hour),
		publishedPost(12, 6, consts.ContentTypeVideo, 2*time.Hour),
		publishedPost(13, 7, consts.ContentTypeText, 3*time.Hour),
	}

	feed, err := fx.svc.GetSmartFeed(context.Background(), 1, dto.FeedOptions{Ads: true, Sponsored: true})
	if err != nil {
		t.Fatalf("降级路径可用时不应出错: %v", err)
	}
	if !feed.Metadata.IsFallback {
		t.Fatal("无候选时应标记降级")
	}
	if feed.Metadata.Error == "" {
		t.Fatal("降级元信息应带失败原因")
	}
	if len(feed.List) != 3 {
		t.Fatalf("期望 3 条最新内容，实际 %d", len(feed.List))
	}
	for i, item := range feed.List {
		if item.Type == consts.ContentTypeAd {
			t.Fatal("降级流不应插入广告")
		}
		if item.Position != i+1 {
			t.Fatalf("索引 %d 的序号为 %d", i, item.Position)
		}
	}
	if len(fx.cache.setKeys) != 0 {
		t.Fatal("降级结果不应写入缓存")
	}
}

func TestGetSmartFeed_PipelinePanicFallsBack(t *testing.T) {
	fx := newFeedFixture()
	fx.ads.panicMsg = "广告服务连接中断"
	fx.svc.followService = &fakeFollowService{ids: []uint64{2, 3, 4, 5, 6, 7}}
	types := []string{consts.ContentTypeText, consts.ContentTypeImage, consts.ContentTypeVideo}
	for i := uint64(0); i < 6; i++ {
		fx.repo.byAuthors = append(fx.repo.byAuthors,
			publishedPost(i+1, i+2, types[i%3], time.Duration(i+1)*time.Hour))
	}
	fx.repo.recent = []*model.Post{
		publishedPost(21, 9, consts.ContentTypeText, time.Hour),
	}

	feed, err := fx.svc.GetSmartFeed(context.Background(), 1, dto.FeedOptions{Limit: 10, Ads: true})
	if err != nil {
		t.Fatalf("流水线 panic 应转入降级路径而非返回错误: %v", err)
	}
	if !feed.Metadata.IsFallback {
		t.Fatal("流水线 panic 后应返回降级流")
	}
	if feed.Metadata.Error == "" {
		t.Fatal("降级元信息应带失败原因")
	}
	for _, item := range feed.List {
		if item.Type == consts.ContentTypeAd {
			t.Fatal("降级流不应插入广告")
		}
	}
	if len(fx.ads.calls) == 0 {
		t.Fatal("用例应确实触发广告位请求")
	}
}

func TestGetSmartFeed_CachedFeedIsByteIdentical(t *testing.T) {
	fx := newFeedFixture()
	fx.svc.feedCache = &roundTripFeedCache{}
	fx.svc.followService = &fakeFollowService{ids: []uint64{2, 3}}
	fx.repo.byAuthors = []*model.Post{
		publishedPost(1, 2, consts.ContentTypeText, time.Hour),
		publishedPost(2, 3, consts.ContentTypeImage, 2*time.Hour),
	}

	opts := dto.FeedOptions{Limit: 10}
	first, err := fx.svc.GetSmartFeed(context.Background(), 1, opts)
	if err != nil {
		t.Fatalf("首次生成不应出错: %v", err)
	}
	second, err := fx.svc.GetSmartFeed(context.Background(), 1, opts)
	if err != nil {
		t.Fatalf("二次请求不应出错: %v", err)
	}
	if !second.Metadata.Cached {
		t.Fatal("二次请求应命中缓存")
	}

	firstRaw, err := json.Marshal(first.List)
	if err != nil {
		t.Fatalf("序列化首次结果失败: %v", err)
	}
	secondRaw, err := json.Marshal(second.List)
	if err != nil {
		t.Fatalf("序列化二次结果失败: %v", err)
	}
	if !bytes.Equal(firstRaw, secondRaw) {
		t.Fatalf("缓存往返后条目应逐字节一致\n首次: %s\n二次: %s", firstRaw, secondRaw)
	}
}

func TestGetSmartFeed_UnavailableWhenFallbackFails(t *testing.T) {
	fx := newFeedFixture()
	fx.repo.recentErr = errors.New("db down")

	_, err := fx.svc.GetSmartFeed(context.Background(), 1, dto.FeedOptions{})
	if !errors.Is(err, ErrFeedUnavailable) {
		t.Fatalf("降级失败应返回 ErrFeedUnavailable，实际 %v", err)
	}
}

func TestGetSmartFeed_CacheReadFailureFallsThrough(t *testing.T) {
	fx := newFeedFixture()
	fx.cache.getErr = errors.New("redis down")
	fx.repo.recent = []*model.Post{
		publishedPost(11, 5, consts.ContentTypeText, time.Hour),
	}

	feed, err := fx.svc.GetSmartFeed(context.Background(), 1, dto.FeedOptions{})
	if err != nil {
		t.Fatalf("缓存故障应退化为重新计算: %v", err)
	}
	if len(feed.List) != 1 {
		t.Fatalf("期望 1 条，实际 %d", len(feed.List))
	}
}

func TestNormalizeOptions(t *testing.T) {
	fx := newFeedFixture()

	cases := []struct {
		name  string
		limit int
		want  int
	}{
		{"零取默认值", 0, config.Cfg.Feed.DefaultLimit},
		{"负数取默认值", -3, config.Cfg.Feed.DefaultLimit},
		{"超上限截断", 9999, config.Cfg.Feed.MaxLimit},
		{"合法值保留", 15, 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fx.svc.normalizeOptions(dto.FeedOptions{Limit: tc.limit})
			if got.Limit != tc.want {
				t.Fatalf("期望 %d，实际 %d", tc.want, got.Limit)
			}
		})
	}
}

func TestRefreshFeed_ForcesRegeneration(t *testing.T) {
	fx := newFeedFixture()
	fx.cache.cached = &dto.FeedDTO{
		List:     []*dto.FeedItemDTO{{ID: 99}},
		Metadata: &dto.FeedMetadataDTO{},
	}
	fx.svc.followService = &fakeFollowService{ids: []uint64{2}}
	fx.repo.byAuthors = []*model.Post{
		publishedPost(1, 2, consts.ContentTypeText, time.Hour),
	}

	feed, err := fx.svc.RefreshFeed(context.Background(), 1)
	if err != nil {
		t.Fatalf("刷新不应出错: %v", err)
	}
	if fx.cache.gets != 0 {
		t.Fatal("刷新不应读缓存")
	}
	if len(feed.List) == 0 || feed.List[0].ID == 99 {
		t.Fatal("刷新应返回重新生成的结果而非缓存内容")
	}
}
