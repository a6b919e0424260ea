package mongo

import (
	"time"
)

// FeedLog Feed 生成记录，供离线模型调参分析
type FeedLog struct {
	ID               string             `bson:"_id,omitempty" json:"id"`
	UserID           uint64             `bson:"user_id" json:"userId"`
	FeedSize         int                `bson:"feed_size" json:"feedSize"`
	LaneWeights      map[string]float64 `bson:"lane_weights" json:"laneWeights"`
	AlgorithmVersion string             `bson:"algorithm_version" json:"algorithmVersion"`
	IsFallback       bool               `bson:"is_fallback" json:"isFallback"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
}
