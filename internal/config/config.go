package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Index    IndexConfig
	Dedup    DedupConfig
	Query    QueryConfig
	Feed     FeedConfig
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	Env  string
}

// StoreConfig выбирает бэкенд стора генераций: sqlite (умолчание) или postgres
type StoreConfig struct {
	Backend    string
	SQLitePath string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig выбирает бэкенд кеша ответов: redis, memory или off
type CacheConfig struct {
	Backend string
}

type IndexConfig struct {
	Strategy string
	CellSize float64
}

type DedupConfig struct {
	CellSize  float64
	Threshold float64
}

type QueryConfig struct {
	CacheTTL time.Duration
}

// FeedConfig выбирает источник сырых записей: kafka, file или http
type FeedConfig struct {
	Source string

	KafkaBrokers   []string
	KafkaTopic     string
	KafkaGroupID   string
	KafkaBatchSize int
	KafkaBatchWait time.Duration

	FileDir string

	HTTPURL     string
	HTTPTimeout time.Duration
	HTTPRetries int
}

type WorkerConfig struct {
	PollInterval    time.Duration
	ConsumerGroup   string
	FlushSize       int
	FlushInterval   time.Duration
	KeepGenerations int
}

type LogConfig struct {
	Level string
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Отсутствие .env не ошибка: конфигурация может прийти только окружением
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("API_HOST"),
			Port: viper.GetInt("API_PORT"),
			Env:  viper.GetString("API_ENV"),
		},
		Store: StoreConfig{
			Backend:    viper.GetString("STORE_BACKEND"),
			SQLitePath: viper.GetString("SQLITE_PATH"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Backend: viper.GetString("CACHE_BACKEND"),
		},
		Index: IndexConfig{
			Strategy: viper.GetString("INDEX_STRATEGY"),
			CellSize: viper.GetFloat64("INDEX_CELL_SIZE"),
		},
		Dedup: DedupConfig{
			CellSize:  viper.GetFloat64("DEDUP_CELL_SIZE"),
			Threshold: viper.GetFloat64("DEDUP_THRESHOLD"),
		},
		Query: QueryConfig{
			CacheTTL: time.Duration(viper.GetInt("QUERY_CACHE_TTL")) * time.Second,
		},
		Feed: FeedConfig{
			Source:         viper.GetString("FEED_SOURCE"),
			KafkaBrokers:   parseList(viper.GetString("KAFKA_BROKERS")),
			KafkaTopic:     viper.GetString("KAFKA_TOPIC"),
			KafkaGroupID:   viper.GetString("KAFKA_GROUP_ID"),
			KafkaBatchSize: viper.GetInt("KAFKA_BATCH_SIZE"),
			KafkaBatchWait: time.Duration(viper.GetInt("KAFKA_BATCH_WAIT")) * time.Second,
			FileDir:        viper.GetString("FEED_DIR"),
			HTTPURL:        viper.GetString("FEED_URL"),
			HTTPTimeout:    time.Duration(viper.GetInt("FEED_HTTP_TIMEOUT")) * time.Second,
			HTTPRetries:    viper.GetInt("FEED_HTTP_RETRIES"),
		},
		Worker: WorkerConfig{
			PollInterval:    time.Duration(viper.GetInt("WORKER_POLL_INTERVAL")) * time.Second,
			ConsumerGroup:   viper.GetString("WORKER_CONSUMER_GROUP"),
			FlushSize:       viper.GetInt("INGEST_FLUSH_SIZE"),
			FlushInterval:   time.Duration(viper.GetInt("INGEST_FLUSH_INTERVAL")) * time.Second,
			KeepGenerations: viper.GetInt("KEEP_GENERATIONS"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	// Set default values if not provided
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Env == "" {
		cfg.Server.Env = "development"
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "sqlite"
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "data/snapshots.db"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 5 * time.Minute
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = time.Minute
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Index.Strategy == "" {
		cfg.Index.Strategy = "grid"
	}
	if cfg.Index.CellSize == 0 {
		cfg.Index.CellSize = 0.1
	}
	if cfg.Dedup.CellSize == 0 {
		cfg.Dedup.CellSize = 0.1
	}
	if cfg.Dedup.Threshold == 0 {
		cfg.Dedup.Threshold = 0.05
	}
	if cfg.Query.CacheTTL == 0 {
		cfg.Query.CacheTTL = 5 * time.Minute
	}
	if cfg.Feed.Source == "" {
		cfg.Feed.Source = "file"
	}
	if len(cfg.Feed.KafkaBrokers) == 0 {
		cfg.Feed.KafkaBrokers = []string{"localhost:9092"}
	}
	if cfg.Feed.KafkaTopic == "" {
		cfg.Feed.KafkaTopic = "fuelstation.raw"
	}
	if cfg.Feed.KafkaGroupID == "" {
		cfg.Feed.KafkaGroupID = "fuelstation-ingest"
	}
	if cfg.Feed.KafkaBatchSize == 0 {
		cfg.Feed.KafkaBatchSize = 500
	}
	if cfg.Feed.KafkaBatchWait == 0 {
		cfg.Feed.KafkaBatchWait = 5 * time.Second
	}
	if cfg.Feed.FileDir == "" {
		cfg.Feed.FileDir = "data/feed"
	}
	if cfg.Feed.HTTPTimeout == 0 {
		cfg.Feed.HTTPTimeout = 30 * time.Second
	}
	if cfg.Feed.HTTPRetries == 0 {
		cfg.Feed.HTTPRetries = 3
	}
	if cfg.Worker.PollInterval == 0 {
		cfg.Worker.PollInterval = time.Minute
	}
	if cfg.Worker.ConsumerGroup == "" {
		cfg.Worker.ConsumerGroup = "fuelstation-api"
	}
	if cfg.Worker.FlushSize == 0 {
		cfg.Worker.FlushSize = 1000
	}
	if cfg.Worker.FlushInterval == 0 {
		cfg.Worker.FlushInterval = 30 * time.Second
	}
	if cfg.Worker.KeepGenerations == 0 {
		cfg.Worker.KeepGenerations = 5
	}

	return cfg, nil
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
