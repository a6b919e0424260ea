package model

import "time"

// UserBehavior 用户行为聚合指标，由上游离线任务产出，引擎只读
type UserBehavior struct {
	UserID            uint64    `gorm:"primaryKey" json:"user_id"`
	EngagementRate    float64   `gorm:"not null;default:0" json:"engagement_rate"` // [0,1]
	TimeOnPlatformSec int64     `gorm:"not null;default:0" json:"time_on_platform_sec"`
	LastActiveAt      time.Time `json:"last_active_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (UserBehavior) TableName() string {
	return "user_behaviors"
}
