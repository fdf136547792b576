package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Identity IdentityConfig `mapstructure:"identity"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputFile string `mapstructure:"output_file"`
}

// StorageConfig selects where the session snapshot lives.
type StorageConfig struct {
	Driver    string      `mapstructure:"driver"` // memory | file | redis
	Path      string      `mapstructure:"path"`
	KeyPrefix string      `mapstructure:"key_prefix"`
	Redis     RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CatalogConfig struct {
	Source string      `mapstructure:"source"` // file | s3 | mongo
	Path   string      `mapstructure:"path"`
	S3     S3Config    `mapstructure:"s3"`
	Mongo  MongoConfig `mapstructure:"mongo"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Object    string `mapstructure:"object"`
	Region    string `mapstructure:"region"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// MongoConfig хранит параметры подключения к MongoDB.
type MongoConfig struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type IdentityConfig struct {
	Source string `mapstructure:"source"` // catalog | mongo
}

// NATSConfig with an empty URL disables event publishing.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
}

type TracingConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output_file", "stderr")

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", ".catalog/session.json")
	v.SetDefault("storage.key_prefix", "catalog:device:")
	v.SetDefault("storage.redis.address", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "catalog.yaml")
	v.SetDefault("catalog.s3.endpoint", "localhost:9000")
	v.SetDefault("catalog.s3.access_key", "minioadmin")
	v.SetDefault("catalog.s3.secret_key", "minioadmin")
	v.SetDefault("catalog.s3.use_ssl", false)
	v.SetDefault("catalog.s3.bucket", "catalog-seeds")
	v.SetDefault("catalog.s3.object", "catalog.json")
	v.SetDefault("catalog.s3.region", "us-east-1")
	v.SetDefault("catalog.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("catalog.mongo.database", "catalog_db")
	v.SetDefault("catalog.mongo.connect_timeout", "10s")

	v.SetDefault("identity.source", "catalog")

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.connect_timeout", "5s")
	v.SetDefault("nats.subject_prefix", "")

	v.SetDefault("tracing.service_name", "catalog-service")
	v.SetDefault("tracing.otlp_endpoint", "")

	v.SetDefault("metrics.namespace", "catalog")
}

// LoadConfig reads defaults, then an optional YAML file at path (a file or a
// directory holding config.yaml), then CATALOG_* environment variables.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Could not load .env file: %v", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			v.SetConfigFile(path)
		} else {
			v.AddConfigPath(path)
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "redis":
	case "file":
		if c.Storage.Path == "" {
			return errors.New("config: storage.path is required for the file driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Catalog.Source {
	case "file":
		if c.Catalog.Path == "" {
			return errors.New("config: catalog.path is required for the file source")
		}
	case "s3":
		if c.Catalog.S3.Bucket == "" || c.Catalog.S3.Object == "" {
			return errors.New("config: catalog.s3.bucket and catalog.s3.object are required for the s3 source")
		}
	case "mongo":
	default:
		return fmt.Errorf("config: unknown catalog source %q", c.Catalog.Source)
	}

	switch c.Identity.Source {
	case "catalog", "mongo":
	default:
		return fmt.Errorf("config: unknown identity source %q", c.Identity.Source)
	}
	return nil
}
