package model

import (
	"time"
)

type Post struct {
	ID            uint64     `gorm:"primaryKey"`
	UserID        uint64     `gorm:"not null;index:idx_user_id" json:"user_id"`
	Title         string     `gorm:"type:varchar(255)" json:"title"`
	Content       string     `gorm:"not null" json:"content"`
	Type          string     `gorm:"type:varchar(16);not null;index:idx_type" json:"type"` // text/image/video/audio/poll/link/event/sponsored
	Visibility    string     `gorm:"type:varchar(16);not null;default:'public'" json:"visibility"`
	Tags          StringList `gorm:"type:json" json:"tags"`
	LikesCount    int64      `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int64      `gorm:"not null;default:0" json:"comments_count"`
	SharesCount   int64      `gorm:"not null;default:0" json:"shares_count"`
	ViewsCount    int64      `gorm:"not null;default:0" json:"views_count"`
	DurationSec   int        `gorm:"not null;default:0" json:"duration_sec"`  // 视频/音频时长
	AvgWatchSec   float64    `gorm:"not null;default:0" json:"avg_watch_sec"` // 平均观看时长
	Latitude      *float64   `json:"latitude"`
	Longitude     *float64   `json:"longitude"`
	Status        int8       `gorm:"not null;default:0;index:idx_status" json:"status"` // 1:已发布
	IsDeleted     bool       `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt     time.Time  `gorm:"index:idx_created_at" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}
