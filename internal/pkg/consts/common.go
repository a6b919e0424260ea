package consts

// 内容类型
const (
	ContentTypeText      = "text"
	ContentTypeImage     = "image"
	ContentTypeVideo     = "video"
	ContentTypeAudio     = "audio"
	ContentTypePoll      = "poll"
	ContentTypeLink      = "link"
	ContentTypeEvent     = "event"
	ContentTypeAd        = "ad"
	ContentTypeSponsored = "sponsored"
)

// 可见性
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
)

const (
	PostStatusNormal = 1
)

// 内容通道
const (
	LaneFollowing = "following"
	LaneForYou    = "for_you"
	LaneTrending  = "trending"
	LaneDiscover  = "discover"
	LaneVideos    = "videos"
	LaneAudio     = "audio"
	LaneNearby    = "nearby"
	LanePremium   = "premium"
)

// AlgorithmVersion 写入缓存与分析日志，便于离线对比算法版本
const AlgorithmVersion = "smart_feed_v2"
