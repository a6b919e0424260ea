package kafka

import (
	"Lodestone/internal/api/config"
	"Lodestone/internal/pkg/feedcache"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	userFollowsConsumer sarama.ConsumerGroup
	userFollowsHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	feedCache feedcache.FeedCache,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	userFollowsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaFollowsConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	userFollowsHandler := NewUserFollowsHandler(feedCache)

	return &ConsumerManager{
		userFollowsConsumer: userFollowsConsumer,
		userFollowsHandler:  userFollowsHandler,
	}, nil
}

// Start 启动所有消费者，阻塞到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	go func() {
		topic := cfg.KafkaFollowsConsumer.Topic
		log.Info("User Follows consumer started", "topic", topic)
		for {
			if err := m.userFollowsConsumer.Consume(ctx, []string{topic}, m.userFollowsHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.userFollowsConsumer.Close(); err != nil {
		log.Error("Failed to close follows consumer", "err", err)
	}

	return nil
}
