package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the tests touch. Viper ignores empty values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HMS_APP_NAME", "HMS_APP_ENV", "HMS_APP_PORT",
		"HMS_DATABASE_DRIVER", "HMS_DATABASE_PATH", "HMS_DATABASE_HOST", "HMS_DATABASE_PORT",
		"HMS_DATABASE_USER", "HMS_DATABASE_PASSWORD", "HMS_DATABASE_DBNAME", "HMS_DATABASE_SSLMODE",
		"HMS_DATABASE_MAX_OPEN_CONNS", "HMS_DATABASE_MAX_IDLE_CONNS",
		"HMS_REDIS_HOST", "HMS_TELEMETRY_SAMPLING_RATIO", "HMS_TELEMETRY_DB_LOG_FULL_SQL",
		"HMS_TELEMETRY_METRICS_ENABLED", "HMS_TELEMETRY_METRICS_EXPORT_INTERVAL", "HMS_TELEMETRY_LOGS_ENABLED",
		"HMS_LEDGER_DISCOUNT_APPROVAL_THRESHOLD", "HMS_LEDGER_DEFAULT_REORDER_LEVEL", "HMS_LEDGER_IDEMPOTENCY_TTL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "hms-ledger", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "hms.db", cfg.Database.Path)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.False(t, cfg.Redis.Enabled())
		assert.True(t, decimal.NewFromInt(5).Equal(cfg.Ledger.DiscountApprovalThreshold))
		assert.Equal(t, int64(10), cfg.Ledger.DefaultReorderLevel)
		assert.Equal(t, 24*time.Hour, cfg.Ledger.IdempotencyTTL)
		assert.Equal(t, "hms-ledger", cfg.Telemetry.ServiceName)
		assert.False(t, cfg.Telemetry.MetricsEnabled)
		assert.False(t, cfg.Telemetry.LogsEnabled)
		assert.Equal(t, 60*time.Second, cfg.Telemetry.MetricsExportInterval)
	})

	t.Run("loads metric and log export settings", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HMS_TELEMETRY_METRICS_ENABLED", "true")
		t.Setenv("HMS_TELEMETRY_METRICS_EXPORT_INTERVAL", "15s")
		t.Setenv("HMS_TELEMETRY_LOGS_ENABLED", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Telemetry.MetricsEnabled)
		assert.True(t, cfg.Telemetry.LogsEnabled)
		assert.Equal(t, 15*time.Second, cfg.Telemetry.MetricsExportInterval)
	})

	t.Run("loads values from environment variables with HMS prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HMS_APP_NAME", "pharmacy")
		t.Setenv("HMS_APP_PORT", "9000")
		t.Setenv("HMS_DATABASE_DRIVER", "Postgres")
		t.Setenv("HMS_DATABASE_HOST", "db.local")
		t.Setenv("HMS_DATABASE_PASSWORD", "secret")
		t.Setenv("HMS_REDIS_HOST", "cache.local")
		t.Setenv("HMS_LEDGER_DISCOUNT_APPROVAL_THRESHOLD", "7.5")
		t.Setenv("HMS_LEDGER_DEFAULT_REORDER_LEVEL", "20")
		t.Setenv("HMS_LEDGER_IDEMPOTENCY_TTL", "2h")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pharmacy", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "db.local", cfg.Database.Host)
		assert.True(t, cfg.Redis.Enabled())
		assert.Equal(t, "cache.local:6379", cfg.Redis.Addr())
		assert.True(t, decimal.RequireFromString("7.5").Equal(cfg.Ledger.DiscountApprovalThreshold))
		assert.Equal(t, int64(20), cfg.Ledger.DefaultReorderLevel)
		assert.Equal(t, 2*time.Hour, cfg.Ledger.IdempotencyTTL)
	})

	t.Run("zero discount threshold is kept", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HMS_LEDGER_DISCOUNT_APPROVAL_THRESHOLD", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Ledger.DiscountApprovalThreshold.IsZero())
	})

	t.Run("rejects invalid settings", func(t *testing.T) {
		tests := []struct {
			name string
			env  map[string]string
			want string
		}{
			{"unknown driver", map[string]string{"HMS_DATABASE_DRIVER": "mysql"}, "database.driver"},
			{"idle exceeds open", map[string]string{"HMS_DATABASE_MAX_OPEN_CONNS": "10", "HMS_DATABASE_MAX_IDLE_CONNS": "20"}, "cannot exceed"},
			{"negative idle", map[string]string{"HMS_DATABASE_MAX_IDLE_CONNS": "-1"}, "cannot be negative"},
			{"threshold over 100", map[string]string{"HMS_LEDGER_DISCOUNT_APPROVAL_THRESHOLD": "150"}, "discount_approval_threshold"},
			{"threshold not a number", map[string]string{"HMS_LEDGER_DISCOUNT_APPROVAL_THRESHOLD": "ten"}, "discount_approval_threshold"},
			{"sampling ratio", map[string]string{"HMS_TELEMETRY_SAMPLING_RATIO": "1.5"}, "sampling_ratio"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				clearEnv(t)
				for k, v := range tt.env {
					t.Setenv(k, v)
				}
				_, err := Load()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	t.Run("memory store is refused", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HMS_APP_ENV", "production")
		t.Setenv("HMS_DATABASE_DRIVER", "memory")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not allowed in production")
	})

	t.Run("postgres requires a password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HMS_APP_ENV", "production")
		t.Setenv("HMS_DATABASE_DRIVER", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("full SQL in spans is refused", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HMS_APP_ENV", "production")
		t.Setenv("HMS_TELEMETRY_DB_LOG_FULL_SQL", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db_log_full_sql")
	})

	t.Run("passes with sqlite", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("HMS_APP_ENV", "production")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "/testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}
