package es

import (
	"time"

	"Lodestone/internal/model"
)

// PostES 写入 ES 的帖子文档
type PostES struct {
	ID            uint64    `json:"id"`
	UserID        uint64    `json:"user_id"`
	Status        int       `json:"status"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Type          string    `json:"type"`
	Visibility    string    `json:"visibility"`
	Tags          []string  `json:"tags"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	SharesCount   int64     `json:"shares_count"`
	ViewsCount    int64     `json:"views_count"`
	DurationSec   int       `json:"duration_sec"`
	AvgWatchSec   float64   `json:"avg_watch_sec"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToPost 转换为 gorm 模型，供打分流水线统一处理
func (p *PostES) ToPost() *model.Post {
	return &model.Post{
		ID:            p.ID,
		UserID:        p.UserID,
		Title:         p.Title,
		Content:       p.Content,
		Type:          p.Type,
		Visibility:    p.Visibility,
		Tags:          p.Tags,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		SharesCount:   p.SharesCount,
		ViewsCount:    p.ViewsCount,
		DurationSec:   p.DurationSec,
		AvgWatchSec:   p.AvgWatchSec,
		Status:        int8(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
