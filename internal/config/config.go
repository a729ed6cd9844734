package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	CRM      CRMConfig
	Feed     FeedConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	ForecastTTLSeconds  int
	DashboardTTLSeconds int
}

type CRMConfig struct {
	APIKey      string
	BaseURL     string
	PipelineKey string
}

type FeedConfig struct {
	UploadDir            string
	DriveCredentialsJSON string
	DriveFolderID        string
	S3Endpoint           string
	S3AccessKey          string
	S3SecretKey          string
	S3Bucket             string
	S3Prefix             string
	S3UseSSL             bool
	SyncSchedule         string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "reporder")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 1800)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("STREAK_API_KEY", "")
		viper.SetDefault("STREAK_BASE_URL", "https://www.streak.com/api/v1")
		viper.SetDefault("STREAK_PIPELINE_KEY", "")
		viper.SetDefault("FEED_UPLOAD_DIR", "./data/feeds")
		viper.SetDefault("FEED_DRIVE_FOLDER_ID", "")
		viper.SetDefault("FEED_S3_ENDPOINT", "")
		viper.SetDefault("FEED_S3_ACCESS_KEY", "")
		viper.SetDefault("FEED_S3_SECRET_KEY", "")
		viper.SetDefault("FEED_S3_BUCKET", "")
		viper.SetDefault("FEED_S3_PREFIX", "buyer_feeds/")
		viper.SetDefault("FEED_S3_USE_SSL", true)
		viper.SetDefault("FEED_SYNC_SCHEDULE", "0 */4 * * *")

		viper.AutomaticEnv()

		ensureDir(viper.GetString("FEED_UPLOAD_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds:  viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			CRM: CRMConfig{
				APIKey:      viper.GetString("STREAK_API_KEY"),
				BaseURL:     viper.GetString("STREAK_BASE_URL"),
				PipelineKey: viper.GetString("STREAK_PIPELINE_KEY"),
			},
			Feed: FeedConfig{
				UploadDir:            viper.GetString("FEED_UPLOAD_DIR"),
				DriveCredentialsJSON: viper.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
				DriveFolderID:        viper.GetString("FEED_DRIVE_FOLDER_ID"),
				S3Endpoint:           viper.GetString("FEED_S3_ENDPOINT"),
				S3AccessKey:          viper.GetString("FEED_S3_ACCESS_KEY"),
				S3SecretKey:          viper.GetString("FEED_S3_SECRET_KEY"),
				S3Bucket:             viper.GetString("FEED_S3_BUCKET"),
				S3Prefix:             viper.GetString("FEED_S3_PREFIX"),
				S3UseSSL:             viper.GetBool("FEED_S3_USE_SSL"),
				SyncSchedule:         viper.GetString("FEED_SYNC_SCHEDULE"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
