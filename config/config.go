package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"storefront/messaging"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Cart   CartConfig   `mapstructure:"cart"`
	Admin  AdminConfig  `mapstructure:"admin"`
	Shop   ShopConfig   `mapstructure:"shop"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	// Backend is "mongo" or "memory".
	Backend string `mapstructure:"backend"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type CartConfig struct {
	// Backend is "redis", "file" or "memory".
	Backend string        `mapstructure:"backend"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type AdminConfig struct {
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
}

type ShopConfig struct {
	Name                 string                     `mapstructure:"name"`
	BaseURL              string                     `mapstructure:"base_url"`
	CountryPrefix        string                     `mapstructure:"country_prefix"`
	DefaultBusinessPhone string                     `mapstructure:"default_business_phone"`
	Timezone             string                     `mapstructure:"timezone"`
	PaymentContacts      []messaging.PaymentContact `mapstructure:"payment_contacts"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

func (s ShopConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.Timezone)
}

// LoadEnv loads a .env file from the working directory when one exists.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func GetEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":"+GetEnv("PORT", "8080"))
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.backend", "mongo")
	v.SetDefault("mongo.uri", GetEnv("MONGO_URI", ""))
	v.SetDefault("mongo.database", GetEnv("DB_NAME", "drinkit"))
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("cart.backend", "redis")
	v.SetDefault("cart.dir", "./data/carts")
	v.SetDefault("cart.ttl", 30*24*time.Hour)
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.jwt_secret", GetEnv("JWT_SECRET", ""))
	v.SetDefault("admin.session_ttl", 12*time.Hour)
	v.SetDefault("shop.name", "Drink It")
	v.SetDefault("shop.base_url", "https://drinkit1.vercel.app")
	v.SetDefault("shop.country_prefix", messaging.DefaultCountryPrefix)
	v.SetDefault("shop.default_business_phone", "258856727539")
	v.SetDefault("shop.timezone", "Africa/Maputo")
	v.SetDefault("shop.payment_contacts", []map[string]string{
		{"number": "856727539", "name": "Gerson Joaquim Filipe Charles"},
		{"number": "869059082", "name": "Gerson Joaquim Filipe Charles"},
	})
	v.SetDefault("log.development", false)
}

// Load reads config.yaml (optional) and STOREFRONT_* environment
// variables, e.g. STOREFRONT_MONGO_URI for mongo.uri.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./")
		v.AddConfigPath("./deploy/")
		v.AddConfigPath("/etc/storefront/")
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
