package dto

import "time"

// FeedQueryDTO Feed 请求参数
type FeedQueryDTO struct {
	Limit        int   `form:"limit" binding:"omitempty,min=1"`
	ForceRefresh bool  `form:"force_refresh"`
	Ads          *bool `form:"ads"`
	Sponsored    *bool `form:"sponsored"`
}

// ToOptions 填充默认值后转为引擎选项
func (q *FeedQueryDTO) ToOptions() FeedOptions {
	opts := FeedOptions{
		ForceRefresh: q.ForceRefresh,
		Limit:        q.Limit,
		Ads:          true,
		Sponsored:    true,
	}
	if q.Ads != nil {
		opts.Ads = *q.Ads
	}
	if q.Sponsored != nil {
		opts.Sponsored = *q.Sponsored
	}
	return opts
}

// FeedOptions 引擎识别的全部选项，未设置项使用默认值
type FeedOptions struct {
	ForceRefresh bool `json:"force_refresh"` // 默认 false
	Limit        int  `json:"limit"`         // 默认 20，上限 max_limit
	Ads          bool `json:"ads"`           // 默认 true
	Sponsored    bool `json:"sponsored"`     // 默认 true
}

// AdDTO 广告条目附加信息
type AdDTO struct {
	AdID       string `json:"ad_id"`
	MediaURL   string `json:"media_url"`
	TargetURL  string `json:"target_url"`
	Advertiser string `json:"advertiser"`
}

// FeedItemDTO Feed 中的一个条目（帖子或广告位）
type FeedItemDTO struct {
	ID            uint64   `json:"id,omitempty"`
	UserID        uint64   `json:"user_id,omitempty"`
	Title         string   `json:"title"`
	Content       string   `json:"content,omitempty"`
	Type          string   `json:"type"`
	Tags          []string `json:"tags,omitempty"`
	LikesCount    int64    `json:"likes_count"`
	CommentsCount int64    `json:"comments_count"`
	SharesCount   int64    `json:"shares_count"`
	ViewsCount    int64    `json:"views_count"`
	CreatedAt     string   `json:"created_at,omitempty"`

	// 打分元信息，仅供观测，消费端逻辑不依赖
	Position int     `json:"position"`
	Source   string  `json:"source,omitempty"`
	Score    float64 `json:"score,omitempty"`

	Ad *AdDTO `json:"ad,omitempty"`
}

// FeedMetadataDTO 生成元信息
type FeedMetadataDTO struct {
	AlgorithmVersion string             `json:"algorithm_version"`
	LaneWeights      map[string]float64 `json:"lane_weights,omitempty"`
	IsFallback       bool               `json:"is_fallback"`
	Cached           bool               `json:"cached"`
	Error            string             `json:"error,omitempty"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// FeedDTO 完整 Feed 返回
type FeedDTO struct {
	List     []*FeedItemDTO   `json:"list"`
	Metadata *FeedMetadataDTO `json:"metadata"`
}
