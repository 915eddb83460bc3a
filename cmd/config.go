package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	PlatformFeeRate decimal.Decimal
	DefaultCODFee   int64
	MaxWeightKg     decimal.Decimal

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	FeeCacheTTL   time.Duration

	KafkaBrokers          []string
	KafkaOrderEventsTopic string

	LogLevel string

	JobsEnabled            bool
	OutboxRelaySchedule    string
	OutboxBatchSize        int
	ReconciliationSchedule string
	ReconcileBatchSize     int
}

// DSN is the lib/pq connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func defaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "laundry")
	v.SetDefault("DB_NAME", "laundry")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("PLATFORM_FEE_RATE", "0.03")
	v.SetDefault("DEFAULT_COD_FEE", 5000)
	v.SetDefault("MAX_WEIGHT_KG", "1000")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("FEE_CACHE_TTL", "5m")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_ORDER_EVENTS_TOPIC", "laundry.order-events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JOBS_ENABLED", true)
	v.SetDefault("OUTBOX_RELAY_SCHEDULE", "*/5 * * * * *")
	v.SetDefault("OUTBOX_BATCH_SIZE", 100)
	v.SetDefault("RECONCILIATION_SCHEDULE", "0 * * * * *")
	v.SetDefault("RECONCILE_BATCH_SIZE", 50)
}

// LoadConfig reads envFile when it exists and then the environment, which
// takes precedence.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	feeRate, err := decimal.NewFromString(v.GetString("PLATFORM_FEE_RATE"))
	if err != nil {
		return Config{}, fmt.Errorf("PLATFORM_FEE_RATE: %w", err)
	}
	maxWeight, err := decimal.NewFromString(v.GetString("MAX_WEIGHT_KG"))
	if err != nil {
		return Config{}, fmt.Errorf("MAX_WEIGHT_KG: %w", err)
	}

	var brokers []string
	for _, b := range strings.Split(v.GetString("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return Config{
		HTTPPort:   v.GetString("HTTP_PORT"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSslMode:  v.GetString("DB_SSLMODE"),

		PlatformFeeRate: feeRate,
		DefaultCODFee:   v.GetInt64("DEFAULT_COD_FEE"),
		MaxWeightKg:     maxWeight,

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		FeeCacheTTL:   v.GetDuration("FEE_CACHE_TTL"),

		KafkaBrokers:          brokers,
		KafkaOrderEventsTopic: v.GetString("KAFKA_ORDER_EVENTS_TOPIC"),

		LogLevel: v.GetString("LOG_LEVEL"),

		JobsEnabled:            v.GetBool("JOBS_ENABLED"),
		OutboxRelaySchedule:    v.GetString("OUTBOX_RELAY_SCHEDULE"),
		OutboxBatchSize:        v.GetInt("OUTBOX_BATCH_SIZE"),
		ReconciliationSchedule: v.GetString("RECONCILIATION_SCHEDULE"),
		ReconcileBatchSize:     v.GetInt("RECONCILE_BATCH_SIZE"),
	}, nil
}
