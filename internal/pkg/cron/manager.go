package cron

import (
	"Lodestone/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine            *cron.Cron
	feedCacheSweepJob *job.FeedCacheSweepJob
	userInterestSync  *job.UserInterestSyncJob
}

func NewCronManager(feedCacheSweepJob *job.FeedCacheSweepJob, userInterestSync *job.UserInterestSyncJob) *Manager {
	return &Manager{
		engine:            cron.New(cron.WithSeconds()),
		feedCacheSweepJob: feedCacheSweepJob,
		userInterestSync:  userInterestSync,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("@every 1m", s.feedCacheSweepJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.userInterestSync); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
