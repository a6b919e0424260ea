package service

import (
	"Lodestone/internal/api/dto"
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/adclient"
	"Lodestone/internal/pkg/consts"
	"context"
	log "log/slog"
	"time"

	"github.com/jinzhu/copier"
)

// monetize 在多样性过滤后的序列里插入商业化内容：
// 每 AdInterval 条帖子后追加一条广告，每条帖子后按概率追加一条赞助内容。
// 商业化失败一律静默跳过，绝不影响主 Feed。最后统一回填 1 起始的位置序号。
func (s *feedService) monetize(ctx context.Context, userID uint64, posts []*ScoredItem, opts dto.FeedOptions) []*dto.FeedItemDTO {
	out := make([]*dto.FeedItemDTO, 0, len(posts)+len(posts)/s.cfg().AdInterval+1)

	var sponsoredPool []*model.Post
	sponsoredLoaded := false
	sponsoredNext := 0
	poolNext := 0

	postCount := 0
	for _, item := range posts {
		out = append(out, toFeedItem(item))
		postCount++

		if opts.Ads && postCount%s.cfg().AdInterval == 0 {
			slot := postCount / s.cfg().AdInterval
			ad, err := s.adProvider.GetAd(ctx, userID, slot)
			if err != nil {
				log.Warn("广告获取失败", "userId", userID, "slot", slot, "err", err)
			} else if ad != nil {
				out = append(out, adFeedItem(ad))
			}
		}

		if opts.Sponsored && s.rand() < s.cfg().SponsoredRatio {
			sponsoredNext++
			unit, err := s.adProvider.GetSponsoredPost(ctx, userID, sponsoredNext)
			if err != nil {
				log.Warn("赞助内容获取失败", "userId", userID, "slot", sponsoredNext, "err", err)
			}
			if unit != nil {
				out = append(out, sponsoredFeedItem(unit))
				continue
			}

			// 投放服务无内容时回落到本地赞助池，轮转使用
			if !sponsoredLoaded {
				sponsoredLoaded = true
				pool, err := s.postRepo.GetSponsored(ctx, s.cfg().AdInterval*2)
				if err != nil {
					log.Warn("赞助池读取失败", "userId", userID, "err", err)
				} else {
					sponsoredPool = pool
				}
			}
			if len(sponsoredPool) > 0 {
				post := sponsoredPool[poolNext%len(sponsoredPool)]
				poolNext++
				out = append(out, toFeedItem(&ScoredItem{Post: post, Source: consts.ContentTypeSponsored}))
			}
		}
	}

	for i, item := range out {
		item.Position = i + 1
	}
	return out
}

// toFeedItem 模型转出参，保留通道与分值供下游分析
func toFeedItem(item *ScoredItem) *dto.FeedItemDTO {
	var out dto.FeedItemDTO
	_ = copier.Copy(&out, item.Post)
	out.CreatedAt = item.Post.CreatedAt.Format(time.RFC3339)
	out.Source = item.Source
	out.Score = item.Score
	return &out
}

func sponsoredFeedItem(unit *adclient.SponsoredUnit) *dto.FeedItemDTO {
	return &dto.FeedItemDTO{
		ID:      unit.ID,
		UserID:  unit.UserID,
		Title:   unit.Title,
		Content: unit.Content,
		Type:    unit.Type,
		Tags:    unit.Tags,
		Source:  consts.ContentTypeSponsored,
	}
}

func adFeedItem(ad *adclient.AdUnit) *dto.FeedItemDTO {
	return &dto.FeedItemDTO{
		Title: ad.Title,
		Type:  consts.ContentTypeAd,
		Ad: &dto.AdDTO{
			AdID:       ad.ID,
			MediaURL:   ad.MediaURL,
			TargetURL:  ad.TargetURL,
			Advertiser: ad.Advertiser,
		},
	}
}
