package service

import (
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"context"
	log "log/slog"
	"sync"
	"time"
)

// 各通道的召回时间窗与附近流的包围盒半径（经纬度）
const (
	followingWindow = 7 * 24 * time.Hour
	forYouWindow    = 48 * time.Hour
	trendingWindow  = 24 * time.Hour
	mediaWindow     = 72 * time.Hour
	nearbyRadiusDeg = 0.5
	discoverPerTag  = 2
)

// fetchAllLanes 并发抓取所有激活通道。等待全部结束而非首错即返：
// 单通道失败只损失该通道的候选，绝不终止整次生成。
func (s *feedService) fetchAllLanes(ctx context.Context, userID uint64, pref *model.UserPreference, weights LaneWeights) map[string][]*ScoredItem {
	results := make([][]*ScoredItem, len(fetcherLanes))

	var wg sync.WaitGroup
	for i, lane := range fetcherLanes {
		if weights[lane.Name] < lane.Threshold {
			continue
		}

		wg.Add(1)
		go func(idx int, name string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Error("通道抓取异常退出", "lane", name, "err", r)
				}
			}()
			results[idx] = s.fetchLane(ctx, name, userID, pref)
		}(i, lane.Name)
	}
	wg.Wait()

	lanes := make(map[string][]*ScoredItem, len(fetcherLanes))
	for i, lane := range fetcherLanes {
		if len(results[i]) > 0 {
			lanes[lane.Name] = results[i]
		}
	}
	return lanes
}

func (s *feedService) fetchLane(ctx context.Context, lane string, userID uint64, pref *model.UserPreference) []*ScoredItem {
	switch lane {
	case consts.LaneFollowing:
		return s.fetchFollowing(ctx, userID, pref)
	case consts.LaneForYou:
		return s.fetchForYou(ctx, pref)
	case consts.LaneTrending:
		return s.fetchTrending(ctx)
	case consts.LaneDiscover:
		return s.fetchDiscover(ctx, userID, pref)
	case consts.LaneVideos:
		return s.fetchVideos(ctx)
	case consts.LaneAudio:
		return s.fetchAudio(ctx)
	case consts.LaneNearby:
		return s.fetchNearby(ctx, pref)
	default:
		return nil
	}
}

// fetchFollowing 关注流。关注集为空时直接返回，不再查内容库
func (s *feedService) fetchFollowing(ctx context.Context, userID uint64, pref *model.UserPreference) []*ScoredItem {
	followingIDs, err := s.followService.GetFollowingIDs(ctx, userID)
	if err != nil {
		log.Warn("关注流获取关注集失败", "userId", userID, "err", err)
		return nil
	}
	if len(followingIDs) == 0 {
		return nil
	}

	now := s.now()
	posts, err := s.postRepo.GetByAuthors(ctx, followingIDs, now.Add(-followingWindow), s.cfg().FetchLimit)
	if err != nil {
		log.Warn("关注流查询失败", "userId", userID, "err", err)
		return nil
	}

	items := make([]*ScoredItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, &ScoredItem{
			Post:   post,
			Source: consts.LaneFollowing,
			Score:  scoreFollowing(s.cfg(), post, pref, now),
		})
	}
	return items
}

// fetchForYou 个性化流，近期公开内容按画像打分
func (s *feedService) fetchForYou(ctx context.Context, pref *model.UserPreference) []*ScoredItem {
	now := s.now()
	posts, err := s.postRepo.GetRecentSince(ctx, now.Add(-forYouWindow), s.cfg().FetchLimit)
	if err != nil {
		log.Warn("个性化流查询失败", "err", err)
		return nil
	}

	items := make([]*ScoredItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, &ScoredItem{
			Post:   post,
			Source: consts.LaneForYou,
			Score:  scorePersonalized(s.cfg(), post, pref, now),
		})
	}
	return items
}

// fetchTrending 热门流，候选来自 ES 的 24h 窗口，按互动速率打分
func (s *feedService) fetchTrending(ctx context.Context) []*ScoredItem {
	now := s.now()
	docs, err := s.candidateRepo.TrendingWindow(ctx, now.Add(-trendingWindow), s.cfg().FetchLimit)
	if err != nil {
		log.Warn("热门流检索失败", "err", err)
		return nil
	}

	items := make([]*ScoredItem, 0, len(docs))
	for _, doc := range docs {
		post := doc.ToPost()
		items = append(items, &ScoredItem{
			Post:   post,
			Source: consts.LaneTrending,
			Score:  scoreTrending(s.cfg(), post, now),
		})
	}
	return items
}

// fetchDiscover 发现流：排除已关注作者，同一话题最多保留两条
func (s *feedService) fetchDiscover(ctx context.Context, userID uint64, pref *model.UserPreference) []*ScoredItem {
	var interests []string
	if pref != nil {
		interests = pref.Interests
	}

	excludeAuthors := []uint64{userID}
	if followingIDs, err := s.followService.GetFollowingIDs(ctx, userID); err == nil {
		excludeAuthors = append(excludeAuthors, followingIDs...)
	}

	docs, err := s.candidateRepo.DiscoverByTopics(ctx, interests, excludeAuthors, s.cfg().FetchLimit)
	if err != nil {
		log.Warn("发现流检索失败", "userId", userID, "err", err)
		return nil
	}

	now := s.now()
	tagCount := make(map[string]int)
	items := make([]*ScoredItem, 0, len(docs))
	for _, doc := range docs {
		post := doc.ToPost()
		if !underTagCap(post.Tags, tagCount) {
			continue
		}
		items = append(items, &ScoredItem{
			Post:   post,
			Source: consts.LaneDiscover,
			Score:  scoreDiscover(s.cfg(), post, pref, now),
		})
	}
	return items
}

// underTagCap 任一标签未达上限即接受，并为全部标签计数
func underTagCap(tags []string, tagCount map[string]int) bool {
	if len(tags) == 0 {
		return true
	}
	ok := false
	for _, tag := range tags {
		if tagCount[tag] < discoverPerTag {
			ok = true
			break
		}
	}
	if !ok {
		return false
	}
	for _, tag := range tags {
		tagCount[tag]++
	}
	return true
}

// fetchVideos 视频流
func (s *feedService) fetchVideos(ctx context.Context) []*ScoredItem {
	now := s.now()
	posts, err := s.postRepo.GetByTypes(ctx, []string{consts.ContentTypeVideo}, now.Add(-mediaWindow), s.cfg().FetchLimit)
	if err != nil {
		log.Warn("视频流查询失败", "err", err)
		return nil
	}

	items := make([]*ScoredItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, &ScoredItem{
			Post:   post,
			Source: consts.LaneVideos,
			Score:  scoreVideo(s.cfg(), post, now),
		})
	}
	return items
}

// fetchAudio 音频流
func (s *feedService) fetchAudio(ctx context.Context) []*ScoredItem {
	now := s.now()
	posts, err := s.postRepo.GetByTypes(ctx, []string{consts.ContentTypeAudio}, now.Add(-mediaWindow), s.cfg().FetchLimit)
	if err != nil {
		log.Warn("音频流查询失败", "err", err)
		return nil
	}

	items := make([]*ScoredItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, &ScoredItem{
			Post:   post,
			Source: consts.LaneAudio,
			Score:  scoreAudio(s.cfg(), post, now),
		})
	}
	return items
}

// fetchNearby 附近流，画像未携带定位时跳过
func (s *feedService) fetchNearby(ctx context.Context, pref *model.UserPreference) []*ScoredItem {
	if pref == nil || pref.Latitude == nil || pref.Longitude == nil {
		return nil
	}

	now := s.now()
	posts, err := s.postRepo.GetNearby(ctx, *pref.Latitude, *pref.Longitude, nearbyRadiusDeg, s.cfg().FetchLimit)
	if err != nil {
		log.Warn("附近流查询失败", "err", err)
		return nil
	}

	items := make([]*ScoredItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, &ScoredItem{
			Post:   post,
			Source: consts.LaneNearby,
			Score:  scoreBase(s.cfg(), post, now),
		})
	}
	return items
}
