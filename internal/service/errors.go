package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid     = errors.New("参数错误")
	ErrUserFollowExist  = errors.New("用户已关注")
	ErrUserFollowSelf   = errors.New("用户不能关注自己")
	ErrFollowNotFound   = errors.New("关注关系不存在")
	ErrFeedUnavailable  = errors.New("信息流暂不可用，请稍后重试")
	ErrNoFeedCandidates = errors.New("无可用候选内容")
	UnauthorizedError   = errors.New("权限不足")
	UnExpectedError     = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:    BadRequest,
	ErrUserFollowExist: BadRequest,
	ErrUserFollowSelf:  BadRequest,
	ErrFollowNotFound:  NotFound,
	ErrFeedUnavailable: InternalServerError,
	UnauthorizedError:  Unauthorized,
	UnExpectedError:    InternalServerError,
}
