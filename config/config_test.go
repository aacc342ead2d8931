package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDBEnv(t *testing.T) {
	for _, k := range []string{"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("FEE_RATES", "")
	t.Setenv("BODY_LIMIT_BYTES", "")
	t.Setenv("BODY_LIMIT_MB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 5*1024*1024, cfg.BodyLimitBytes)
	assert.Equal(t, 60*time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.FeeRates["credito"].Equal(decimal.RequireFromString("0.035")))
	assert.Contains(t, cfg.DSN(), "dbname=ledger")
}

func TestLoad_Overrides(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "fallback")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("FEE_RATES", "credito=0.04,vale=0.05")
	t.Setenv("BODY_LIMIT_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fallback", cfg.JWTSecret)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 1024, cfg.BodyLimitBytes)
	assert.True(t, cfg.FeeRates["credito"].Equal(decimal.RequireFromString("0.04")))
	assert.True(t, cfg.FeeRates["vale"].Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, "app:pw@tcp(localhost:3306)/ledger?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DSN())
}

func TestLoad_Rejects(t *testing.T) {
	t.Setenv("FEE_RATES", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")

	t.Setenv("JWT_SECRET_KEY", "x")
	t.Setenv("DB_DRIVER", "oracle")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER")

	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("FEE_RATES", "credito")
	_, err = Load()
	assert.ErrorContains(t, err, "FEE_RATES")
}
