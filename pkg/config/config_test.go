package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StorageDriverPostgres, cfg.Inventory.StorageDriver)
	assert.Equal(t, 5, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 100, cfg.Inventory.HistoryPageSize)
	assert.Equal(t, 5*time.Second, cfg.Inventory.CommitTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.RunMigrations)
	assert.False(t, cfg.Events.Enabled())
	assert.Equal(t, "stock-ledger", cfg.Events.TopicPrefix)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "MEMORY")
	v.Set("LOW_STOCK_THRESHOLD", "3")
	v.Set("COMMIT_TIMEOUT", "2s")
	v.Set("DB_MAX_CONN_LIFETIME", "120")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Inventory.StorageDriver)
	assert.Equal(t, 3, cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 2*time.Second, cfg.Inventory.CommitTimeout)
	assert.Equal(t, 2*time.Minute, cfg.DB.MaxConnLifetime)
}

func TestFromViper_RejectsUnknownDriver(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "firestore")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProductionRequiresSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("JWT_SECRET", "s3cr3t")
	_, err = fromViper(v)
	assert.NoError(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ledger?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestFromViper_KafkaBrokers(t *testing.T) {
	v := viper.New()
	v.Set("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Events.Enabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.KafkaBrokers)
	assert.Equal(t, 256, cfg.Events.BufferSize)

	v.Set("EVENTS_BUFFER_SIZE", "0")
	_, err = fromViper(v)
	assert.Error(t, err)
}
