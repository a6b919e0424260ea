package handler

import (
	"Lodestone/internal/api/dto"
	"Lodestone/internal/pkg/response"
	"Lodestone/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedSvc: feedSvc,
	}
}

// GetFeed 获取个性化 Feed，未登录用户按 0 号用户（无画像、无关注）处理
func (s *FeedHandler) GetFeed(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var query dto.FeedQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	feed, err := s.feedSvc.GetSmartFeed(c.Request.Context(), userID, query.ToOptions())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}

// RefreshFeed 强制重新生成并预热缓存
func (s *FeedHandler) RefreshFeed(c *gin.Context) {
	userID := c.GetUint64("user_id")

	feed, err := s.feedSvc.RefreshFeed(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, feed)
}
