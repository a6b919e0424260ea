package service

import (
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"math"
	"testing"
	"time"
)

func postAt(age time.Duration) *model.Post {
	return &model.Post{
		ID:        1,
		Type:      consts.ContentTypeText,
		CreatedAt: daytime.Add(-age),
	}
}

func TestScoreBase_FresherScoresHigher(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	fresh := scoreBase(fc, postAt(1*time.Hour), daytime)
	stale := scoreBase(fc, postAt(24*time.Hour), daytime)

	if fresh <= stale {
		t.Fatalf("新内容应得分更高，实际 fresh=%f stale=%f", fresh, stale)
	}
}

func TestScoreBase_FutureTimestampNotBoosted(t *testing.T) {
	t.Parallel()

	// 时钟漂移产生的未来时间戳按 0 小时处理
	fc := defaultFeedConfig()
	future := scoreBase(fc, postAt(-2*time.Hour), daytime)
	now := scoreBase(fc, postAt(0), daytime)

	if future != now {
		t.Fatalf("未来时间戳不应获得额外加成, future=%f now=%f", future, now)
	}
}

func TestEngagementBoost(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	cases := []struct {
		name  string
		likes int64
		views int64
		want  float64
	}{
		{"零浏览量按 1 处理", 2, 0, 1 + 2.0*1.5},
		{"常规互动率", 100, 1000, 1 + 0.1*1.5},
		{"零互动", 0, 500, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			post := &model.Post{LikesCount: tc.likes, ViewsCount: tc.views}
			got := engagementBoost(fc, post)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("期望 %f，实际 %f", tc.want, got)
			}
		})
	}
}

func TestTagJaccard(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		tags      []string
		interests []string
		want      float64
	}{
		{"完全重合", []string{"go", "db"}, []string{"go", "db"}, 1.0},
		{"无重合", []string{"go"}, []string{"rust"}, 0.0},
		{"部分重合", []string{"go", "db"}, []string{"go", "web"}, 1.0 / 3.0},
		{"任一为空", nil, []string{"go"}, 0.0},
		{"兴趣重复不影响结果", []string{"go", "db"}, []string{"go", "go", "web"}, 1.0 / 3.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tagJaccard(tc.tags, tc.interests)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("期望 %f，实际 %f", tc.want, got)
			}
		})
	}
}

func TestScoreVideo_DurationRules(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	base := func(durationSec int) *model.Post {
		p := postAt(1 * time.Hour)
		p.Type = consts.ContentTypeVideo
		p.DurationSec = durationSec
		return p
	}

	short := scoreVideo(fc, base(30), daytime)
	medium := scoreVideo(fc, base(300), daytime)
	long := scoreVideo(fc, base(1200), daytime)

	if short <= medium {
		t.Fatalf("短视频应高于中等时长视频，short=%f medium=%f", short, medium)
	}
	if long >= medium {
		t.Fatalf("超长视频应低于中等时长视频，long=%f medium=%f", long, medium)
	}
	if got, want := short/medium, 1.5; math.Abs(got-want) > 1e-9 {
		t.Fatalf("短视频加成应为 %f，实际 %f", want, got)
	}
	if got, want := long/medium, 0.7; math.Abs(got-want) > 1e-9 {
		t.Fatalf("超长视频衰减应为 %f，实际 %f", want, got)
	}
}

func TestScoreVideo_CompletionBoost(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	watched := postAt(1 * time.Hour)
	watched.Type = consts.ContentTypeVideo
	watched.DurationSec = 300
	watched.AvgWatchSec = 300

	skipped := postAt(1 * time.Hour)
	skipped.Type = consts.ContentTypeVideo
	skipped.DurationSec = 300
	skipped.AvgWatchSec = 0

	full := scoreVideo(fc, watched, daytime)
	none := scoreVideo(fc, skipped, daytime)
	if got, want := full/none, 2.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("满完播率应放大 %f 倍，实际 %f", want, got)
	}
}

func TestCompletionRatio_Clamped(t *testing.T) {
	t.Parallel()

	over := &model.Post{DurationSec: 100, AvgWatchSec: 250}
	if got := completionRatio(over); got != 1.0 {
		t.Fatalf("完播率应截断到 1，实际 %f", got)
	}
	zero := &model.Post{DurationSec: 0, AvgWatchSec: 50}
	if got := completionRatio(zero); got != 0 {
		t.Fatalf("无时长内容完播率应为 0，实际 %f", got)
	}
}

func TestScoreTrending_VelocityAndDecay(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	post := postAt(2 * time.Hour)
	post.LikesCount = 20
	post.CommentsCount = 10
	post.SharesCount = 4

	// (20/2)*1 + (10/2)*2 + (4/2)*3 = 26，再乘 e^(-2/24)
	want := 26.0 * math.Exp(-2.0/24.0)
	got := scoreTrending(fc, post, daytime)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("期望 %f，实际 %f", want, got)
	}
}

func TestScoreTrending_YoungPostElapsedClamped(t *testing.T) {
	t.Parallel()

	// 发布不足 1 小时按 1 小时算速率，避免除小数爆分
	fc := defaultFeedConfig()
	post := postAt(6 * time.Minute)
	post.LikesCount = 10

	got := scoreTrending(fc, post, daytime)
	ceiling := 10.0 * math.Exp(-0.1/24.0)
	if got > ceiling+1e-9 {
		t.Fatalf("新内容速率应按 1 小时封顶，实际 %f 超过 %f", got, ceiling)
	}
}

func TestScoreTrending_VideoBoost(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	text := postAt(2 * time.Hour)
	text.LikesCount = 20

	video := postAt(2 * time.Hour)
	video.LikesCount = 20
	video.Type = consts.ContentTypeVideo

	ts := scoreTrending(fc, text, daytime)
	vs := scoreTrending(fc, video, daytime)
	if got, want := vs/ts, 1.3; math.Abs(got-want) > 1e-9 {
		t.Fatalf("视频热门加成应为 %f，实际 %f", want, got)
	}
}

func TestTypeAffinityMultiplier(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		contentType string
		affinity    model.AffinityMap
		want        float64
	}{
		{"视频强偏好", consts.ContentTypeVideo, model.AffinityMap{consts.ContentTypeVideo: 0.8}, 1.5},
		{"音频强偏好", consts.ContentTypeAudio, model.AffinityMap{consts.ContentTypeAudio: 0.6}, 1.3},
		{"偏好不足阈值", consts.ContentTypeVideo, model.AffinityMap{consts.ContentTypeVideo: 0.3}, 1.0},
		{"文本无加成", consts.ContentTypeText, model.AffinityMap{consts.ContentTypeText: 0.9}, 1.0},
		{"无画像", consts.ContentTypeVideo, nil, 1.0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := typeAffinityMultiplier(tc.contentType, tc.affinity); got != tc.want {
				t.Fatalf("期望 %f，实际 %f", tc.want, got)
			}
		})
	}
}

func TestScoreFollowing_AuthorAffinity(t *testing.T) {
	t.Parallel()

	fc := defaultFeedConfig()
	post := postAt(1 * time.Hour)
	post.UserID = 42

	pref := &model.UserPreference{
		AuthorAffinity: model.AffinityMap{"42": 0.8},
	}

	with := scoreFollowing(fc, post, pref, daytime)
	without := scoreFollowing(fc, post, nil, daytime)
	if got, want := with/without, 1.8; math.Abs(got-want) > 1e-9 {
		t.Fatalf("作者亲和度加成应为 %f，实际 %f", want, got)
	}
}
