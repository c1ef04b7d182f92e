package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	App    AppConfig
	Store  StoreConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Auth   AuthConfig
	CORS   CORSConfig
	Notify NotifyConfig
}

type AppConfig struct {
	Port     string
	Env      string
	LogLevel string
}

type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI          string
	Database     string
	Transactions bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret    string
	JWTExpires   time.Duration
	CookieExpire time.Duration
	BcryptCost   int
}

type CORSConfig struct {
	AllowOrigins []string
}

type NotifyConfig struct {
	TextbeltAPIKey string
}

var (
	ErrMissingJWTSecret  = errors.New("JWT_SECRET is required")
	ErrInvalidBcryptCost = fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
)

// Load reads an optional .env file and then the process environment.
func Load(log *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment variables.")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "4000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", StoreMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "hospital")
	v.SetDefault("MONGO_TRANSACTIONS", false)
	v.SetDefault("JWT_EXPIRES", "168h")
	v.SetDefault("COOKIE_EXPIRE", 7)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("REDIS_DB", 0)
}

func fromViper(v *viper.Viper) (*Config, error) {
	jwtExpires, err := time.ParseDuration(v.GetString("JWT_EXPIRES"))
	if err != nil || jwtExpires <= 0 {
		jwtExpires = 7 * 24 * time.Hour
	}
	cookieDays := v.GetInt("COOKIE_EXPIRE")
	if cookieDays <= 0 {
		cookieDays = 7
	}

	cfg := &Config{
		App: AppConfig{
			Port:     v.GetString("APP_PORT"),
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		},
		Mongo: MongoConfig{
			URI:          v.GetString("MONGO_URI"),
			Database:     v.GetString("MONGO_DATABASE"),
			Transactions: v.GetBool("MONGO_TRANSACTIONS"),
		},
		Redis: RedisConfig{
			Addr:     strings.TrimSpace(v.GetString("REDIS_ADDR")),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			JWTExpires:   jwtExpires,
			CookieExpire: time.Duration(cookieDays) * 24 * time.Hour,
			BcryptCost:   v.GetInt("BCRYPT_COST"),
		},
		CORS: CORSConfig{
			AllowOrigins: origins(v.GetString("FRONTEND_URL"), v.GetString("DASHBOARD_URL")),
		},
		Notify: NotifyConfig{
			TextbeltAPIKey: v.GetString("TEXTBELT_API_KEY"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		return nil, ErrInvalidBcryptCost
	}
	if cfg.Store.Driver != StoreMongo && cfg.Store.Driver != StoreMemory {
		return nil, errors.New("STORE_DRIVER must be mongo or memory")
	}
	return cfg, nil
}

func origins(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}
