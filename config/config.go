package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Nutrition NutritionConfig `mapstructure:"nutrition"`
	USDA      USDAConfig      `mapstructure:"usda"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Auth      AuthConfig      `mapstructure:"auth"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig selects the plan and key-value backends
type StorageConfig struct {
	Plans       string `mapstructure:"plans"` // "memory", "sqlite" or "postgres"
	KV          string `mapstructure:"kv"`    // "memory" or "sqlite"
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresURL string `mapstructure:"postgres_url"`
}

// CatalogConfig selects where recipes are loaded from
type CatalogConfig struct {
	Source string          `mapstructure:"source"` // "seed", "file" or "s3"
	Path   string          `mapstructure:"path"`
	S3     S3CatalogConfig `mapstructure:"s3"`
}

// S3CatalogConfig locates the catalog object in S3 or an S3-compatible store
type S3CatalogConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	Key             string `mapstructure:"key"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// PlannerConfig holds meal regeneration settings
type PlannerConfig struct {
	SnackCapacity   int           `mapstructure:"snack_capacity"`
	RegenerateDelay time.Duration `mapstructure:"regenerate_delay"`
}

// NutritionConfig holds default goals and classification bands
type NutritionConfig struct {
	Goals     GoalsConfig     `mapstructure:"goals"`
	Tolerance ToleranceConfig `mapstructure:"tolerance"`
}

// GoalsConfig holds the daily targets used when a request has none
type GoalsConfig struct {
	Calories float64 `mapstructure:"calories"`
	Protein  float64 `mapstructure:"protein"`
	Carbs    float64 `mapstructure:"carbs"`
	Fat      float64 `mapstructure:"fat"`
}

// ToleranceConfig holds the accepted band per macro
type ToleranceConfig struct {
	Calories BandConfig `mapstructure:"calories"`
	Protein  BandConfig `mapstructure:"protein"`
	Carbs    BandConfig `mapstructure:"carbs"`
	Fat      BandConfig `mapstructure:"fat"`
}

// BandConfig is the allowance above and below a goal
type BandConfig struct {
	Above float64 `mapstructure:"above"`
	Below float64 `mapstructure:"below"`
}

// USDAConfig holds USDA API configuration
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds food search cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
	USDA  int `mapstructure:"usda"`   // requests per hour
}

// AuthConfig holds request identity settings
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dishco/")

	// DISHCO_STORAGE_SQLITE_PATH -> storage.sqlite_path
	v.SetEnvPrefix("DISHCO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key is registered so
// that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	// Storage defaults
	v.SetDefault("storage.plans", "memory")
	v.SetDefault("storage.kv", "memory")
	v.SetDefault("storage.sqlite_path", "data/dishco.db")
	v.SetDefault("storage.postgres_url", "")

	// Catalog defaults
	v.SetDefault("catalog.source", "seed")
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.s3.endpoint", "")
	v.SetDefault("catalog.s3.region", "us-east-1")
	v.SetDefault("catalog.s3.bucket", "")
	v.SetDefault("catalog.s3.key", "")
	v.SetDefault("catalog.s3.access_key_id", "")
	v.SetDefault("catalog.s3.secret_access_key", "")

	// Planner defaults
	v.SetDefault("planner.snack_capacity", 2)
	v.SetDefault("planner.regenerate_delay", "0s")

	// Nutrition defaults
	v.SetDefault("nutrition.goals.calories", 2200)
	v.SetDefault("nutrition.goals.protein", 120)
	v.SetDefault("nutrition.goals.carbs", 250)
	v.SetDefault("nutrition.goals.fat", 70)
	v.SetDefault("nutrition.tolerance.calories.above", 75)
	v.SetDefault("nutrition.tolerance.calories.below", 75)
	v.SetDefault("nutrition.tolerance.protein.above", 2)
	v.SetDefault("nutrition.tolerance.protein.below", 2)
	v.SetDefault("nutrition.tolerance.carbs.above", 5)
	v.SetDefault("nutrition.tolerance.carbs.below", 5)
	v.SetDefault("nutrition.tolerance.fat.above", 5)
	v.SetDefault("nutrition.tolerance.fat.below", 5)

	// USDA defaults
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")

	// Cache defaults
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Storage.Plans {
	case "memory", "sqlite":
	case "postgres":
		if config.Storage.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required when plan storage is 'postgres' (set DISHCO_STORAGE_POSTGRES_URL)")
		}
	default:
		return fmt.Errorf("plan storage must be 'memory', 'sqlite' or 'postgres', got: %s", config.Storage.Plans)
	}

	if config.Storage.KV != "memory" && config.Storage.KV != "sqlite" {
		return fmt.Errorf("kv storage must be 'memory' or 'sqlite', got: %s", config.Storage.KV)
	}

	if (config.Storage.Plans == "sqlite" || config.Storage.KV == "sqlite") && config.Storage.SQLitePath == "" {
		return fmt.Errorf("sqlite path is required when a store uses sqlite")
	}

	switch config.Catalog.Source {
	case "seed":
	case "file":
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file'")
		}
	case "s3":
		if config.Catalog.S3.Bucket == "" || config.Catalog.S3.Key == "" {
			return fmt.Errorf("catalog S3 bucket and key are required when catalog source is 's3'")
		}
	default:
		return fmt.Errorf("catalog source must be 'seed', 'file' or 's3', got: %s", config.Catalog.Source)
	}

	if config.Planner.SnackCapacity < 1 {
		return fmt.Errorf("planner snack capacity must be at least 1, got: %d", config.Planner.SnackCapacity)
	}
	if config.Planner.RegenerateDelay < 0 {
		return fmt.Errorf("planner regenerate delay must not be negative")
	}

	goals := config.Nutrition.Goals
	if goals.Calories <= 0 || goals.Protein <= 0 || goals.Carbs <= 0 || goals.Fat <= 0 {
		return fmt.Errorf("nutrition goals must be positive")
	}

	tol := config.Nutrition.Tolerance
	for _, band := range []BandConfig{tol.Calories, tol.Protein, tol.Carbs, tol.Fat} {
		if band.Above < 0 || band.Below < 0 {
			return fmt.Errorf("nutrition tolerances must not be negative")
		}
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit must not be negative")
	}

	return nil
}
