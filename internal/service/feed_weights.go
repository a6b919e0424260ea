package service

import (
	"Lodestone/internal/api/config"
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
	"time"
)

// calculateLaneWeights 由行为画像与时段计算归一化通道权重。
// 相同输入必然得到相同输出，便于离线回放对比。
func calculateLaneWeights(fc *config.FeedConfig, behavior *model.UserBehavior, now time.Time) LaneWeights {
	weights := make(LaneWeights, len(fc.BaseWeights))
	for lane, w := range fc.BaseWeights {
		weights[lane] = w
	}

	if behavior != nil {
		// 高互动用户偏向个性化通道
		if behavior.EngagementRate > 0.7 {
			weights[consts.LaneForYou] += 0.15
			weights[consts.LaneFollowing] -= 0.10
			weights[consts.LaneTrending] -= 0.05
		}
		// 新用户关注关系少，偏向热门与发现
		if behavior.TimeOnPlatformSec < 300 {
			weights[consts.LaneTrending] += 0.10
			weights[consts.LaneDiscover] += 0.10
			weights[consts.LaneFollowing] -= 0.20
		}
	}

	// 时段调整：白天偏浏览，夜间偏视频音频
	hour := now.Hour()
	if hour >= 8 && hour <= 17 {
		weights[consts.LaneDiscover] += 0.05
		weights[consts.LaneForYou] += 0.05
	} else {
		weights[consts.LaneVideos] += 0.10
		weights[consts.LaneAudio] += 0.05
	}

	// 先截负再归一化，保证权重和为 1
	var total float64
	for lane, w := range weights {
		if w < 0 {
			w = 0
			weights[lane] = 0
		}
		total += w
	}
	if total <= 0 {
		return weights
	}
	for lane, w := range weights {
		weights[lane] = w / total
	}
	return weights
}
