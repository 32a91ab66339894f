package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevJWTSecret is only accepted outside release mode.
const DevJWTSecret = "snapgram-dev-secret-change-this"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Push      PushConfig      `mapstructure:"push"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Retries        int           `mapstructure:"retries"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

type UploadConfig struct {
	Path        string `mapstructure:"path"`
	URLPrefix   string `mapstructure:"url_prefix"`
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxFiles    int    `mapstructure:"max_files"`
	AllowedExts string `mapstructure:"allowed_exts"`
}

type StorageConfig struct {
	Driver        string `mapstructure:"driver"` // local, cloudinary
	CloudinaryURL string `mapstructure:"cloudinary_url"`
	Folder        string `mapstructure:"folder"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type PushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
	Subscriber      string `mapstructure:"subscriber"`
}

// Enabled reports whether web push has a usable key pair.
func (p PushConfig) Enabled() bool {
	return p.VAPIDPublicKey != "" && p.VAPIDPrivateKey != ""
}

// JWTExpiration converts the configured hours into a duration, falling back to 24h.
func (c Config) JWTExpiration() time.Duration {
	if c.JWT.ExpirationHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.JWT.ExpirationHours) * time.Hour
}

// Load reads .env (when present), then config.yaml from dir or the working
// directory, then SNAPGRAM_* environment variables. server.port maps to
// SNAPGRAM_SERVER_PORT.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("⚠️  .env not loaded: %v", err)
	}

	v := viper.New()
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "config"
	}
	v.AddConfigPath(dir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		log.Println("⚠️  config.yaml not found, using environment variables and defaults")
	}

	v.SetEnvPrefix("SNAPGRAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.checkJWTSecret(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "snapgram")
	v.SetDefault("mongo.connect_timeout", 15*time.Second)
	v.SetDefault("mongo.retries", 3)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("upload.path", "uploads")
	v.SetDefault("upload.url_prefix", "/uploads/")
	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("upload.max_files", 3)
	v.SetDefault("upload.allowed_exts", ".jpg,.jpeg,.png,.gif,.webp,.heic")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.cloudinary_url", "")
	v.SetDefault("storage.folder", "snapgram")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "snapgram")
	v.SetDefault("rate_limit.rps", 1.0)
	v.SetDefault("rate_limit.burst", 60)
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000", "http://127.0.0.1:5500"})
	v.SetDefault("push.vapid_public_key", "")
	v.SetDefault("push.vapid_private_key", "")
	v.SetDefault("push.subscriber", "mailto:admin@snapgram.local")
}

func (c *Config) checkJWTSecret() error {
	if c.Server.Mode == "release" {
		if c.JWT.Secret == "" || c.JWT.Secret == DevJWTSecret {
			return errors.New("jwt.secret must be set in release mode (SNAPGRAM_JWT_SECRET)")
		}
		return nil
	}
	if c.JWT.Secret == "" {
		log.Println("⚠️  jwt.secret not set, using insecure development secret")
		c.JWT.Secret = DevJWTSecret
	}
	return nil
}
