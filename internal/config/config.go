package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	Store    StoreConfig
	Database DatabaseConfig
	Sheet    SheetConfig
	Redis    RedisConfig
	Queue    QueueConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	OTP      OTPConfig
	Backup   BackupConfig
	Push     PushConfig
	Tracing  TracingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// MetricsConfig holds the standalone metrics server configuration
type MetricsConfig struct {
	Port int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// StoreConfig selects the backing adapter for content rows
type StoreConfig struct {
	Backend string // memory, postgres, sheet
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// SheetConfig holds the remote tabular API configuration
type SheetConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// SMTPConfig holds outbound mail configuration
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Enabled  bool
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret   string
	TokenTTL    time.Duration
	AdminEmails []string
}

// OTPConfig holds one-time password configuration
type OTPConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	Backend       string // memory, redis
}

// BackupConfig holds the content backup job configuration
type BackupConfig struct {
	Enabled  bool
	Interval time.Duration
}

// PushConfig holds the push notification endpoint configuration
type PushConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// TracingConfig holds the Jaeger tracer configuration
type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.readTimeout", "15s")
	viper.SetDefault("server.writeTimeout", "15s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Metrics defaults
	viper.SetDefault("metrics.port", 9091)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")

	// Store defaults: in-memory seed data, matching first-run behavior
	viper.SetDefault("store.backend", "memory")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "satsang")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxConns", 25)
	viper.SetDefault("database.minConns", 5)

	// Sheet defaults
	viper.SetDefault("sheet.baseURL", "")
	viper.SetDefault("sheet.token", "")
	viper.SetDefault("sheet.timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Queue defaults
	viper.SetDefault("queue.host", "localhost")
	viper.SetDefault("queue.port", 5672)
	viper.SetDefault("queue.user", "guest")
	viper.SetDefault("queue.password", "guest")
	viper.SetDefault("queue.vhost", "/")

	// Storage defaults
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accessKeyID", "minioadmin")
	viper.SetDefault("storage.secretAccessKey", "minioadmin")
	viper.SetDefault("storage.bucketName", "satsang-backups")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.useSSL", false)

	// SMTP defaults: disabled means OTP codes are logged instead of mailed
	viper.SetDefault("smtp.host", "localhost")
	viper.SetDefault("smtp.port", 587)
	viper.SetDefault("smtp.user", "")
	viper.SetDefault("smtp.password", "")
	viper.SetDefault("smtp.from", "noreply@apaaranddhruv.org")
	viper.SetDefault("smtp.enabled", false)

	// Auth defaults
	viper.SetDefault("auth.jwtSecret", "")
	viper.SetDefault("auth.tokenTTL", "24h")
	viper.SetDefault("auth.adminEmails", []string{"apaaranddhruv@gmail.com"})

	// OTP defaults
	viper.SetDefault("otp.ttl", "10m")
	viper.SetDefault("otp.sweepInterval", "5m")
	viper.SetDefault("otp.backend", "memory")

	// Backup defaults
	viper.SetDefault("backup.enabled", true)
	viper.SetDefault("backup.interval", "24h")

	// Push defaults
	viper.SetDefault("push.endpoint", "https://exp.host/--/api/v2/push/send")
	viper.SetDefault("push.timeout", "10s")

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")
}
