package wire

import (
	"Lodestone/internal/api"
	"Lodestone/internal/api/config"
	"Lodestone/internal/api/handler"
	"Lodestone/internal/job"
	"Lodestone/internal/pkg/adclient"
	"Lodestone/internal/pkg/cron"
	"Lodestone/internal/pkg/es"
	"Lodestone/internal/pkg/feedcache"
	"Lodestone/internal/pkg/kafka"
	pkgmongo "Lodestone/internal/pkg/mongo"
	"Lodestone/internal/repository"
	"Lodestone/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepository(db)
	userFollowRepo := repository.NewUserFollowRepo(db)
	preferenceRepo := repository.NewUserPreferenceRepository(db)
	behaviorRepo := repository.NewUserBehaviorRepository(db)

	feedCache := feedcache.NewRedisFeedCache()
	candidateRepo := es.NewFeedCandidateRepo(es.Client)
	adProvider := adclient.NewAdProvider(cfg.AdProvider)
	feedLogRepo := pkgmongo.NewFeedLogRepo(mongoDB)

	userFollowService := service.NewUserFollowService(userFollowRepo, feedCache)
	preferenceService := service.NewPreferenceService(preferenceRepo, behaviorRepo, feedCache)
	feedService := service.NewFeedService(
		postRepo,
		userFollowService,
		preferenceService,
		candidateRepo,
		adProvider,
		feedCache,
		feedLogRepo,
	)

	handlers := &api.HandlersGroup{
		FeedHandler:       handler.NewFeedHandler(feedService),
		PreferenceHandler: handler.NewPreferenceHandler(preferenceService),
		UserFollowHandler: handler.NewUserFollowHandler(userFollowService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, feedCache)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewFeedCacheSweepJob(feedCache),
		job.NewUserInterestSyncJob(preferenceRepo),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
