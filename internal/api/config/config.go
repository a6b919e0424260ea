package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyFeedDefaults(&cfg.Feed)

	Cfg = &cfg

	return nil
}

// ApplyFeedDefaults 补齐未配置的策略参数
func ApplyFeedDefaults(fc *FeedConfig) {
	if len(fc.BaseWeights) == 0 {
		fc.BaseWeights = map[string]float64{
			"following": 0.35,
			"for_you":   0.25,
			"trending":  0.15,
			"discover":  0.10,
			"videos":    0.08,
			"audio":     0.04,
			"nearby":    0.02,
			"premium":   0.01,
		}
	}
	if fc.FetchLimit <= 0 {
		fc.FetchLimit = 50
	}
	if fc.DefaultLimit <= 0 {
		fc.DefaultLimit = 20
	}
	if fc.MaxLimit <= 0 {
		fc.MaxLimit = 50
	}
	if fc.FreshnessDecayRate <= 0 {
		fc.FreshnessDecayRate = 0.95
	}
	if fc.EngagementBoost <= 0 {
		fc.EngagementBoost = 1.5
	}
	if fc.AdInterval <= 0 {
		fc.AdInterval = 5
	}
	if fc.SponsoredRatio <= 0 {
		fc.SponsoredRatio = 0.05
	}
	if fc.MaxSameAuthor <= 0 {
		fc.MaxSameAuthor = 2
	}
	if fc.MaxSameType <= 0 {
		fc.MaxSameType = 3
	}
	if fc.MinDistinctAuthors <= 0 {
		fc.MinDistinctAuthors = 5
	}
	if fc.MinDistinctTypes <= 0 {
		fc.MinDistinctTypes = 3
	}
	if fc.MinAccepted <= 0 {
		fc.MinAccepted = 20
	}
	if fc.CacheTTLSec <= 0 {
		fc.CacheTTLSec = 120
	}
	if fc.PreferenceTTLSec <= 0 {
		fc.PreferenceTTLSec = 300
	}
	if fc.TimeoutMs <= 0 {
		fc.TimeoutMs = 3000
	}
}
