package config

// Config 配置主体
type Config struct {
	Server               ServerConfig         `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Mongo                MongoConfig          `mapstructure:"mongo"`
	Elastic              ElasticConfig        `mapstructure:"elastic"`
	Logstash             LogstashConfig       `mapstructure:"logstash"`
	AdProvider           AdProviderConfig     `mapstructure:"ad_provider"`
	Feed                 FeedConfig           `mapstructure:"feed"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaFollowsConsumer KafkaFollowsConsumer `mapstructure:"kafka_follows_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	PostIndex string `mapstructure:"post_index"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// AdProviderConfig 广告服务配置
type AdProviderConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	ApiKey    string `mapstructure:"api_key"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

// FeedConfig Feed 引擎策略参数，未配置项使用 ApplyFeedDefaults 的默认值。
// 这些数值是线上观测行为的复刻，并非调参结论，全部可配置。
type FeedConfig struct {
	BaseWeights        map[string]float64 `mapstructure:"base_weights"`
	FetchLimit         int                `mapstructure:"fetch_limit"`          // 单通道候选上限
	DefaultLimit       int                `mapstructure:"default_limit"`        // 默认返回条数
	MaxLimit           int                `mapstructure:"max_limit"`            // 最大返回条数
	FreshnessDecayRate float64            `mapstructure:"freshness_decay_rate"` // 每小时复合衰减
	EngagementBoost    float64            `mapstructure:"engagement_boost"`
	AdInterval         int                `mapstructure:"ad_interval"`
	SponsoredRatio     float64            `mapstructure:"sponsored_ratio"`
	MaxSameAuthor      int                `mapstructure:"max_same_author"`
	MaxSameType        int                `mapstructure:"max_same_type"`
	MinDistinctAuthors int                `mapstructure:"min_distinct_authors"`
	MinDistinctTypes   int                `mapstructure:"min_distinct_types"`
	MinAccepted        int                `mapstructure:"min_accepted"`
	CacheTTLSec        int                `mapstructure:"cache_ttl_sec"`
	PreferenceTTLSec   int                `mapstructure:"preference_ttl_sec"`
	TimeoutMs          int                `mapstructure:"timeout_ms"` // 整条流水线超时预算
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaFollowsConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
