package es

import (
	"Lodestone/internal/pkg/consts"
	"Lodestone/internal/pkg/util"
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/goccy/go-json"
)

// FeedCandidateRepo 热门/发现通道的候选检索
type FeedCandidateRepo interface {
	TrendingWindow(ctx context.Context, since time.Time, size int) ([]*PostES, error)
	DiscoverByTopics(ctx context.Context, topics []string, excludeAuthors []uint64, size int) ([]*PostES, error)
}

type FeedCandidateRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewFeedCandidateRepo(client *elasticsearch.TypedClient) FeedCandidateRepo {
	return &FeedCandidateRepoImpl{client: client}
}

// TrendingWindow 时间窗内的公开内容，按互动量降序。
// 互动速率与衰减在引擎内计算，这里只负责召回。
func (s *FeedCandidateRepoImpl) TrendingWindow(ctx context.Context, since time.Time, size int) ([]*PostES, error) {
	searchReq := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Filter: []types.Query{
					{Term: map[string]types.TermQuery{"status": {Value: consts.PostStatusNormal}}},
					{Term: map[string]types.TermQuery{"visibility": {Value: consts.VisibilityPublic}}},
					{Range: map[string]types.RangeQuery{
						"created_at": types.DateRangeQuery{
							Gte: util.PtrStr(since.UTC().Format(time.RFC3339)),
						},
					}},
				},
			},
		}).
		Sort(
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"likes_count": {Order: &sortorder.Desc},
			}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				"created_at": {Order: &sortorder.Desc},
			}},
		).
		Size(size)

	return s.executeSearch(ctx, searchReq)
}

// DiscoverByTopics 按话题召回并排除已关注作者
func (s *FeedCandidateRepoImpl) DiscoverByTopics(ctx context.Context, topics []string, excludeAuthors []uint64, size int) ([]*PostES, error) {
	boolQuery := &types.BoolQuery{
		Filter: []types.Query{
			{Term: map[string]types.TermQuery{"status": {Value: consts.PostStatusNormal}}},
			{Term: map[string]types.TermQuery{"visibility": {Value: consts.VisibilityPublic}}},
		},
	}

	if len(topics) > 0 {
		boolQuery.Should = append(boolQuery.Should, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"tags": topics,
				},
			},
		})
	}

	if len(excludeAuthors) > 0 {
		boolQuery.MustNot = append(boolQuery.MustNot, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"user_id": excludeAuthors,
				},
			},
		})
	}

	searchReq := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{Bool: boolQuery}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		Size(size)

	return s.executeSearch(ctx, searchReq)
}

func (s *FeedCandidateRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PostES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PostES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var post PostES
		if err = json.Unmarshal(hit.Source_, &post); err != nil {
			continue
		}
		results = append(results, &post)
	}
	return results, nil
}
