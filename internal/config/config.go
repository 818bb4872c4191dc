package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string   `validate:"required,numeric"`
	StoreDriver    string   `validate:"required,oneof=mongo mysql memory"`
	MongoURI       string   `validate:"required_if=StoreDriver mongo"`
	MongoDatabase  string   `validate:"required_if=StoreDriver mongo"`
	MySQLDSN       string   `validate:"required_if=StoreDriver mysql"`
	RedisAddr      string
	RedisDB        int      `validate:"gte=0"`
	RedisPass      string
	RedisChannel   string   `validate:"required"`
	AllowedOrigins []string `validate:"dive,required"`
	LogLevel       string   `validate:"oneof=debug info warn error"`
	SwaggerHost    string
}

// Load builds Config from the environment, falling back to a .env file in
// the working directory and then to defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("store_driver", DriverMongo)
	v.SetDefault("mongo_host", "localhost:27017")
	v.SetDefault("mongo_database", "taskManagementDB")
	v.SetDefault("mysql_dsn", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_channel", "task-events")
	v.SetDefault("cors_allowed_origins", "http://localhost:5173")
	v.SetDefault("log_level", "info")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ServerPort:     v.GetString("port"),
		StoreDriver:    strings.ToLower(v.GetString("store_driver")),
		MongoURI:       v.GetString("mongo_uri"),
		MongoDatabase:  v.GetString("mongo_database"),
		MySQLDSN:       v.GetString("mysql_dsn"),
		RedisAddr:      v.GetString("redis_addr"),
		RedisDB:        v.GetInt("redis_db"),
		RedisPass:      v.GetString("redis_password"),
		RedisChannel:   v.GetString("redis_channel"),
		AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		SwaggerHost:    v.GetString("swagger_host"),
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = buildMongoURI(v.GetString("db_user"), v.GetString("db_pass"), v.GetString("mongo_host"))
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func buildMongoURI(user, pass, host string) string {
	u := url.URL{Scheme: "mongodb", Host: host}
	if user != "" {
		u.User = url.UserPassword(user, pass)
	}
	return u.String()
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
