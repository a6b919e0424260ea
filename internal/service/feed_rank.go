package service

import (
	"Lodestone/internal/api/config"
	"sort"
)

// aggregateLanes 合并所有通道：最终分 = 通道内分 × 通道权重，全局降序。
// 稳定排序 + 固定通道遍历顺序，保证相同输入产出相同顺序。
// 跨通道重复条目在多样性过滤阶段按先见先得去重，这里不处理。
func aggregateLanes(lanes map[string][]*ScoredItem, weights LaneWeights) []*ScoredItem {
	var merged []*ScoredItem
	for _, lane := range fetcherLanes {
		for _, item := range lanes[lane.Name] {
			item.Score *= weights[item.Source]
			merged = append(merged, item)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	return merged
}

// applyDiversity 单次前向扫描：按 id 去重，限制同作者/同类型的连续长度。
// 达到足够的作者数、类型数与条目数后提前终止，限制大候选集的扫描成本。
func applyDiversity(fc *config.FeedConfig, items []*ScoredItem) []*ScoredItem {
	seenIDs := make(map[uint64]struct{}, len(items))
	distinctAuthors := make(map[uint64]struct{})
	distinctTypes := make(map[string]struct{})

	var (
		accepted   []*ScoredItem
		lastAuthor uint64
		lastType   string
		authorRun  int
		typeRun    int
	)

	for _, item := range items {
		if _, dup := seenIDs[item.Post.ID]; dup {
			continue
		}

		sameAuthor := len(accepted) > 0 && item.Post.UserID == lastAuthor
		sameType := len(accepted) > 0 && item.Post.Type == lastType
		if sameAuthor && authorRun >= fc.MaxSameAuthor {
			continue
		}
		if sameType && typeRun >= fc.MaxSameType {
			continue
		}

		seenIDs[item.Post.ID] = struct{}{}
		if sameAuthor {
			authorRun++
		} else {
			lastAuthor = item.Post.UserID
			authorRun = 1
		}
		if sameType {
			typeRun++
		} else {
			lastType = item.Post.Type
			typeRun = 1
		}

		distinctAuthors[item.Post.UserID] = struct{}{}
		distinctTypes[item.Post.Type] = struct{}{}
		accepted = append(accepted, item)

		if len(distinctAuthors) >= fc.MinDistinctAuthors &&
			len(distinctTypes) >= fc.MinDistinctTypes &&
			len(accepted) >= fc.MinAccepted {
			break
		}
	}
	return accepted
}
