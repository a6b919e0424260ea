package handler

import (
	"Lodestone/internal/pkg/response"
	"Lodestone/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	userFollowSvc service.UserFollowService
}

func NewUserFollowHandler(userFollowSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{userFollowSvc: userFollowSvc}
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	userID := c.GetUint64("user_id")

	followingID, err := s.getFollowingID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.userFollowSvc.Follow(c.Request.Context(), userID, followingID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	userID := c.GetUint64("user_id")

	followingID, err := s.getFollowingID(c)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.userFollowSvc.Unfollow(c.Request.Context(), userID, followingID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) getFollowingID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("following_id"), 10, 64)
}
