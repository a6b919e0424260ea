package adclient

import (
	"Lodestone/internal/api/config"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// AdUnit 广告服务返回的投放单元
type AdUnit struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	MediaURL   string `json:"media_url"`
	TargetURL  string `json:"target_url"`
	Advertiser string `json:"advertiser"`
}

type adResponse struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Data    *AdUnit `json:"data"`
}

// SponsoredUnit 赞助内容投放单元，字段与帖子对齐以便直接转出参
type SponsoredUnit struct {
	ID      uint64   `json:"id"`
	UserID  uint64   `json:"user_id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Type    string   `json:"type"`
	Tags    []string `json:"tags"`
}

type sponsoredResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    *SponsoredUnit `json:"data"`
}

// AdProvider 外部广告投放服务。允许返回 nil 或失败，主 Feed 不受影响。
type AdProvider interface {
	GetAd(ctx context.Context, userID uint64, slotIndex int) (*AdUnit, error)
	GetSponsoredPost(ctx context.Context, userID uint64, slotIndex int) (*SponsoredUnit, error)
}

type adProviderImpl struct {
	client *resty.Client
}

func NewAdProvider(cfg config.AdProviderConfig) AdProvider {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutMs)*time.Millisecond).
		SetHeader("X-Api-Key", cfg.ApiKey)

	return &adProviderImpl{client: client}
}

// GetAd 按槽位请求一条广告，无可投放广告时返回 nil
func (s *adProviderImpl) GetAd(ctx context.Context, userID uint64, slotIndex int) (*AdUnit, error) {
	var result adResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", fmt.Sprintf("%d", userID)).
		SetQueryParam("slot", fmt.Sprintf("%d", slotIndex)).
		SetResult(&result).
		Get("/ads/serve")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, errors.New("ad provider responded " + resp.Status())
	}

	return result.Data, nil
}

// GetSponsoredPost 按槽位请求一条赞助内容，无可投放内容时返回 nil
func (s *adProviderImpl) GetSponsoredPost(ctx context.Context, userID uint64, slotIndex int) (*SponsoredUnit, error) {
	var result sponsoredResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("user_id", fmt.Sprintf("%d", userID)).
		SetQueryParam("slot", fmt.Sprintf("%d", slotIndex)).
		SetResult(&result).
		Get("/sponsored/serve")
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, errors.New("ad provider responded " + resp.Status())
	}

	return result.Data, nil
}
