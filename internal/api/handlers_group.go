package api

import "Lodestone/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	FeedHandler       *handler.FeedHandler
	PreferenceHandler *handler.PreferenceHandler
	UserFollowHandler *handler.UserFollowHandler
}
