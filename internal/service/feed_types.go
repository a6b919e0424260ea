package service

import (
	"Lodestone/internal/model"
	"Lodestone/internal/pkg/consts"
)

// ScoredItem 打分后的候选条目，仅存在于单次生成过程内
type ScoredItem struct {
	Post   *model.Post
	Source string  // 产出该条目的通道
	Score  float64 // 通道内分值，非负
}

// LaneWeights 通道权重表，归一化后各项之和为 1
type LaneWeights map[string]float64

// fetcherLanes 拥有抓取器的通道及其激活阈值。
// premium 只参与权重分配，没有独立抓取器，基础权重 0.01 低于所有阈值。
var fetcherLanes = []struct {
	Name      string
	Threshold float64
}{
	{consts.LaneFollowing, 0.1},
	{consts.LaneForYou, 0.1},
	{consts.LaneTrending, 0.1},
	{consts.LaneDiscover, 0.1},
	{consts.LaneVideos, 0.05},
	{consts.LaneAudio, 0.03},
	{consts.LaneNearby, 0.02},
}
