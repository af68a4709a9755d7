package conf

import (
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/instalens/instalens/internal/errors"
)

// Config is the full runtime configuration. Values come from an optional
// config file, environment variables with the INSTALENS prefix, and flags
// bound by the commands.
type Config struct {
	HTTPAddr string `mapstructure:"http_addr" json:"http_addr"`
	DataDir  string `mapstructure:"data_dir" json:"data_dir"`
	WorkDir  string `mapstructure:"work_dir" json:"work_dir"`

	Analysis AnalysisConfig `mapstructure:"analysis" json:"analysis"`
	Cache    CacheConfig    `mapstructure:"cache" json:"cache"`
	Index    IndexConfig    `mapstructure:"index" json:"index"`
	Watch    WatchConfig    `mapstructure:"watch" json:"watch"`
}

// AnalysisConfig tunes the relationship analyzer.
type AnalysisConfig struct {
	TopWords       int      `mapstructure:"top_words" json:"top_words"`
	TopEmojis      int      `mapstructure:"top_emojis" json:"top_emojis"`
	ExtraStopwords []string `mapstructure:"extra_stopwords" json:"extra_stopwords"`
	Timezone       string   `mapstructure:"timezone" json:"timezone"`
}

// CacheConfig selects the analysis cache backend.
type CacheConfig struct {
	// Backend is "memory" or "sqlite".
	Backend    string `mapstructure:"backend" json:"backend"`
	TTLMinutes int    `mapstructure:"ttl_minutes" json:"ttl_minutes"`
	// Path of the SQLite file; relative paths resolve under the work dir.
	Path string `mapstructure:"path" json:"path"`
}

// TTL returns the configured entry lifetime.
func (c *CacheConfig) TTL() time.Duration {
	if c.TTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.TTLMinutes) * time.Minute
}

// IndexConfig controls the full-text message index.
type IndexConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// WatchConfig controls the exports directory watcher.
type WatchConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Dir     string `mapstructure:"dir" json:"dir"`
	// Owner used for archives ingested from the watched directory.
	Owner string `mapstructure:"owner" json:"owner"`
}

// SetDefaults registers the baseline values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", "127.0.0.1:5030")
	v.SetDefault("analysis.top_words", 15)
	v.SetDefault("analysis.top_emojis", 10)
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl_minutes", 24*60)
	v.SetDefault("cache.path", "analysis-cache.db")
	v.SetDefault("index.enabled", true)
	v.SetDefault("watch.enabled", false)
}

// Load reads configuration from the optional file path plus environment and
// returns the decoded Config.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("INSTALENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New(http.StatusInternalServerError, "read config").Wrap(err)
		}
	}

	return Decode(v)
}

// Decode unmarshals a prepared viper instance and validates the result.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New(http.StatusInternalServerError, "decode config").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the services cannot run with.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "", "memory", "sqlite":
	default:
		return errors.InvalidArg("cache.backend")
	}
	if c.Watch.Enabled && c.Watch.Dir == "" {
		return errors.InvalidArg("watch.dir")
	}
	return nil
}
