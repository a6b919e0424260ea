package service

import (
	"Lodestone/internal/api/config"
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"math"
	"strconv"
	"time"
)

// 打分函数族。共同骨架：score = 基准 × 新鲜度衰减 × 互动加成 × 偏好因子。
// 所有返回值非负，同分条目靠稳定排序保持确定性。

func ageHours(now time.Time, createdAt time.Time) float64 {
	age := now.Sub(createdAt).Hours()
	if age < 0 {
		return 0
	}
	return age
}

// freshnessDecay 按小时复合衰减，越旧分越低
func freshnessDecay(fc *config.FeedConfig, hours float64) float64 {
	return math.Pow(fc.FreshnessDecayRate, hours)
}

// engagementBoost 互动率加成，互动率 = 点赞/浏览
func engagementBoost(fc *config.FeedConfig, post *model.Post) float64 {
	views := post.ViewsCount
	if views < 1 {
		views = 1
	}
	rate := float64(post.LikesCount) / float64(views)
	return 1 + rate*fc.EngagementBoost
}

func scoreBase(fc *config.FeedConfig, post *model.Post, now time.Time) float64 {
	return freshnessDecay(fc, ageHours(now, post.CreatedAt)) * engagementBoost(fc, post)
}

// scoreFollowing 关注流按作者亲和度加权
func scoreFollowing(fc *config.FeedConfig, post *model.Post, pref *model.UserPreference, now time.Time) float64 {
	affinity := 0.0
	if pref != nil && pref.AuthorAffinity != nil {
		affinity = pref.AuthorAffinity[strconv.FormatUint(post.UserID, 10)]
	}
	return scoreBase(fc, post, now) * (1 + affinity)
}

// scorePersonalized 个性化流：话题重合度 + 内容类型偏好
func scorePersonalized(fc *config.FeedConfig, post *model.Post, pref *model.UserPreference, now time.Time) float64 {
	score := scoreBase(fc, post, now)
	if pref == nil {
		return score
	}
	score *= 1 + tagJaccard(post.Tags, pref.Interests)
	score *= typeAffinityMultiplier(post.Type, pref.TypeAffinity)
	return score
}

// scoreTrending 互动速率打分，只对 24h 窗口内的内容有意义
func scoreTrending(fc *config.FeedConfig, post *model.Post, now time.Time) float64 {
	hours := ageHours(now, post.CreatedAt)
	elapsed := hours
	if elapsed < 1 {
		elapsed = 1
	}
	velocity := float64(post.LikesCount)/elapsed*1.0 +
		float64(post.CommentsCount)/elapsed*2.0 +
		float64(post.SharesCount)/elapsed*3.0

	score := velocity * math.Exp(-hours/24)
	if post.Type == consts.ContentTypeVideo {
		score *= 1.3
	}
	return score
}

// scoreDiscover 发现流按话题重合度加权，作者排除在召回阶段完成
func scoreDiscover(fc *config.FeedConfig, post *model.Post, pref *model.UserPreference, now time.Time) float64 {
	score := scoreBase(fc, post, now)
	if pref != nil {
		score *= 1 + tagJaccard(post.Tags, pref.Interests)
	}
	return score
}

// scoreVideo 短视频加分、超长视频减分，完播率最高再放大一倍
func scoreVideo(fc *config.FeedConfig, post *model.Post, now time.Time) float64 {
	score := scoreBase(fc, post, now)

	switch {
	case post.DurationSec > 0 && post.DurationSec < 60:
		score *= 1.5
	case post.DurationSec > 600:
		score *= 0.7
	}

	score *= 1 + completionRatio(post)
	return score
}

// scoreAudio 音频流按完播率加成
func scoreAudio(fc *config.FeedConfig, post *model.Post, now time.Time) float64 {
	return scoreBase(fc, post, now) * (1 + completionRatio(post))
}

// completionRatio 平均观看时长与总时长之比，截断到 [0,1]
func completionRatio(post *model.Post) float64 {
	if post.DurationSec <= 0 {
		return 0
	}
	ratio := post.AvgWatchSec / float64(post.DurationSec)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// tagJaccard 帖子标签与用户兴趣的 Jaccard 重合度
func tagJaccard(tags []string, interests []string) float64 {
	if len(tags) == 0 || len(interests) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}

	union := len(set)
	intersect := 0
	seen := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		if _, ok := set[interest]; ok {
			intersect++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersect) / float64(union)
}

// typeAffinityMultiplier 用户明显偏好某类型时的放大系数
func typeAffinityMultiplier(contentType string, affinity model.AffinityMap) float64 {
	if affinity == nil || affinity[contentType] < 0.5 {
		return 1.0
	}
	switch contentType {
	case consts.ContentTypeVideo:
		return 1.5
	case consts.ContentTypeAudio:
		return 1.3
	default:
		return 1.0
	}
}
