package model

import "time"

// UserPreference 用户偏好画像，供个性化打分使用
type UserPreference struct {
	UserID         uint64      `gorm:"primaryKey" json:"user_id"`
	TypeAffinity   AffinityMap `gorm:"type:json" json:"type_affinity"`   // map[content_type]affinity [0,1]
	Interests      StringList  `gorm:"type:json" json:"interests"`       // 话题兴趣标签
	AuthorAffinity AffinityMap `gorm:"type:json" json:"author_affinity"` // map[author_id]affinity [0,1]
	Latitude       *float64    `json:"latitude"`
	Longitude      *float64    `json:"longitude"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func (UserPreference) TableName() string {
	return "user_preferences"
}
