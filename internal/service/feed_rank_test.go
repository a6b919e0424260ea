package service

import (
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"math"
	"testing"
)

func scored(id, author uint64, contentType string, score float64, source string) *ScoredItem {
	return &ScoredItem{
		Post: &model.Post{
			ID:     id,
			UserID: author,
			Type:   contentType,
		},
		Source: source,
		Score:  score,
	}
}

func TestAggregateLanes_AppliesLaneWeights(t *testing.T) {
	t.Parallel()

	lanes := map[string][]*ScoredItem{
		consts.LaneFollowing: {scored(1, 10, consts.ContentTypeText, 2.0, consts.LaneFollowing)},
		consts.LaneTrending:  {scored(2, 20, consts.ContentTypeText, 4.0, consts.LaneTrending)},
	}
	weights := LaneWeights{
		consts.LaneFollowing: 0.5,
		consts.LaneTrending:  0.1,
	}

	merged := aggregateLanes(lanes, weights)
	if len(merged) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(merged))
	}
	// 2.0*0.5=1.0 高于 4.0*0.1=0.4
	if merged[0].Post.ID != 1 {
		t.Fatalf("加权后 following 条目应排第一，实际第一为 %d", merged[0].Post.ID)
	}
	if math.Abs(merged[0].Score-1.0) > 1e-9 || math.Abs(merged[1].Score-0.4) > 1e-9 {
		t.Fatalf("加权分不符: %f, %f", merged[0].Score, merged[1].Score)
	}
}

func TestAggregateLanes_StableOnEqualScores(t *testing.T) {
	t.Parallel()

	weights := LaneWeights{consts.LaneFollowing: 1.0, consts.LaneForYou: 1.0}

	for run := 0; run < 5; run++ {
		merged := aggregateLanes(map[string][]*ScoredItem{
			consts.LaneFollowing: {
				scored(1, 10, consts.ContentTypeText, 1.0, consts.LaneFollowing),
				scored(2, 11, consts.ContentTypeText, 1.0, consts.LaneFollowing),
			},
			consts.LaneForYou: {
				scored(3, 12, consts.ContentTypeText, 1.0, consts.LaneForYou),
			},
		}, weights)
		for i, want := range []uint64{1, 2, 3} {
			if merged[i].Post.ID != want {
				t.Fatalf("第 %d 次运行同分顺序漂移: 位置 %d 期望 %d 实际 %d", run, i, want, merged[i].Post.ID)
			}
		}
	}
}

func TestApplyDiversity_DropsDuplicateIDs(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	items := []*ScoredItem{
		scored(1, 10, consts.ContentTypeText, 3.0, consts.LaneFollowing),
		scored(1, 10, consts.ContentTypeText, 2.0, consts.LaneTrending),
		scored(2, 11, consts.ContentTypeVideo, 1.0, consts.LaneVideos),
	}

	accepted := applyDiversity(fc, items)
	if len(accepted) != 2 {
		t.Fatalf("重复 id 应只保留首个，期望 2 条实际 %d", len(accepted))
	}
	if accepted[0].Source != consts.LaneFollowing {
		t.Fatalf("应保留分高的首见条目，实际来源 %s", accepted[0].Source)
	}
}

func TestApplyDiversity_SameAuthorFlood(t *testing.T) {
	t.Parallel()

	// 同一作者刷屏 30 条，只有前两条能连续通过
	fc := defaultFeedConfig()
	var items []*ScoredItem
	for i := 0; i < 30; i++ {
		items = append(items, scored(uint64(i+1), 7, consts.ContentTypeText, float64(30-i), consts.LaneFollowing))
	}

	accepted := applyDiversity(fc, items)
	if len(accepted) != fc.MaxSameAuthor {
		t.Fatalf("单作者连续上限为 %d，实际接受 %d 条", fc.MaxSameAuthor, len(accepted))
	}
}

func TestApplyDiversity_NoRunExceedsLimits(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	types := []string{consts.ContentTypeText, consts.ContentTypeVideo, consts.ContentTypeImage, consts.ContentTypeAudio}
	var items []*ScoredItem
	for i := 0; i < 200; i++ {
		// 作者高频重复，类型成段出现
		author := uint64(i % 4)
		contentType := types[(i/3)%len(types)]
		items = append(items, scored(uint64(i+1), author, contentType, float64(200-i), consts.LaneForYou))
	}

	accepted := applyDiversity(fc, items)

	authorRun, typeRun := 0, 0
	var lastAuthor uint64
	var lastType string
	for i, item := range accepted {
		if i > 0 && item.Post.UserID == lastAuthor {
			authorRun++
		} else {
			authorRun = 1
		}
		if i > 0 && item.Post.Type == lastType {
			typeRun++
		} else {
			typeRun = 1
		}
		if authorRun > fc.MaxSameAuthor {
			t.Fatalf("位置 %d 出现超过 %d 的同作者连续段", i, fc.MaxSameAuthor)
		}
		if typeRun > fc.MaxSameType {
			t.Fatalf("位置 %d 出现超过 %d 的同类型连续段", i, fc.MaxSameType)
		}
		lastAuthor = item.Post.UserID
		lastType = item.Post.Type
	}
}

func TestApplyDiversity_EarlyStopAfterEnoughVariety(t *testing.T) {
	t.Parallel()

	// 候选远多于需要的量，足够多样后应提前收手
	fc := defaultFeedConfig()
	types := []string{consts.ContentTypeText, consts.ContentTypeVideo, consts.ContentTypeImage}
	var items []*ScoredItem
	for i := 0; i < 500; i++ {
		items = append(items, scored(uint64(i+1), uint64(i%8), types[i%3], float64(500-i), consts.LaneForYou))
	}

	accepted := applyDiversity(fc, items)
	if len(accepted) != fc.MinAccepted {
		t.Fatalf("多样性满足后应在 %d 条停止，实际 %d 条", fc.MinAccepted, len(accepted))
	}
}

func TestApplyDiversity_Deterministic(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	build := func() []*ScoredItem {
		var items []*ScoredItem
		for i := 0; i < 60; i++ {
			items = append(items, scored(uint64(i+1), uint64(i%5), consts.ContentTypeText, float64(60-i), consts.LaneTrending))
		}
		return items
	}

	first := applyDiversity(fc, build())
	second := applyDiversity(fc, build())
	if len(first) != len(second) {
		t.Fatalf("两次过滤条数不同: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Post.ID != second[i].Post.ID {
			t.Fatalf("位置 %d 两次过滤结果不同: %d vs %d", i, first[i].Post.ID, second[i].Post.ID)
		}
	}
}
