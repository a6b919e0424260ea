package handler

import (
	"Lodestone/internal/api/dto"
	"Lodestone/internal/pkg/response"
	"Lodestone/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
)

type PreferenceHandler struct {
	preferenceSvc service.PreferenceService
}

func NewPreferenceHandler(preferenceSvc service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceSvc: preferenceSvc,
	}
}

// GetPreference 查询当前用户的偏好画像
func (s *PreferenceHandler) GetPreference(c *gin.Context) {
	userID := c.GetUint64("user_id")

	pref, err := s.preferenceSvc.GetPreference(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var result dto.PreferenceDTO
	if pref != nil {
		if err = copier.Copy(&result, pref); err != nil {
			response.Error(c, err)
			return
		}
	}
	response.Success(c, result)
}

// UpdatePreference 更新偏好画像，同时失效偏好缓存与 Feed 缓存
func (s *PreferenceHandler) UpdatePreference(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.PreferenceDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.preferenceSvc.UpdatePreference(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
