package dto

// PreferenceDTO 用户偏好画像
type PreferenceDTO struct {
	TypeAffinity   map[string]float64 `json:"type_affinity" binding:"omitempty,dive,min=0,max=1"`
	Interests      []string           `json:"interests"`
	AuthorAffinity map[string]float64 `json:"author_affinity" binding:"omitempty,dive,min=0,max=1"`
	Latitude       *float64           `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude      *float64           `json:"longitude" binding:"omitempty,min=-180,max=180"`
}
