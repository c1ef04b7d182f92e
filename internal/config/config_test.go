package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]interface{}{"JWT_SECRET": "secret"}))
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.App.Port)
	assert.Equal(t, StoreMongo, cfg.Store.Driver)
	assert.Equal(t, "hospital", cfg.Mongo.Database)
	assert.False(t, cfg.Mongo.Transactions)
	assert.Equal(t, 168*time.Hour, cfg.Auth.JWTExpires)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.CookieExpire)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Empty(t, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.IsProduction())
}

func TestFromViperRequiresSecret(t *testing.T) {
	_, err := fromViper(newViper(nil))
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]interface{}{
		"JWT_SECRET":         "secret",
		"JWT_EXPIRES":        "2h",
		"COOKIE_EXPIRE":      3,
		"STORE_DRIVER":       " Memory ",
		"MONGO_TRANSACTIONS": true,
		"FRONTEND_URL":       "http://localhost:5173",
		"DASHBOARD_URL":      "http://localhost:5174",
		"APP_ENV":            "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTExpires)
	assert.Equal(t, 3*24*time.Hour, cfg.Auth.CookieExpire)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.True(t, cfg.Mongo.Transactions)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.CORS.AllowOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestFromViperRejectsUnknownDriver(t *testing.T) {
	_, err := fromViper(newViper(map[string]interface{}{"JWT_SECRET": "secret", "STORE_DRIVER": "postgres"}))
	assert.Error(t, err)
}

func TestFromViperFallsBackOnBadDuration(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]interface{}{"JWT_SECRET": "secret", "JWT_EXPIRES": "7d"}))
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.JWTExpires)
}

func TestFromViperRejectsOutOfRangeBcryptCost(t *testing.T) {
	for _, cost := range []int{0, 3, 32} {
		_, err := fromViper(newViper(map[string]interface{}{"JWT_SECRET": "secret", "BCRYPT_COST": cost}))
		assert.ErrorIs(t, err, ErrInvalidBcryptCost, "cost %d", cost)
	}

	cfg, err := fromViper(newViper(map[string]interface{}{"JWT_SECRET": "secret", "BCRYPT_COST": 4}))
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}
