// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Inventory InventoryConfig
}

type ServerConfig struct {
	Port           string
	IngestPort     string
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

type AppConfig struct {
	DataDir     string
	ReportDir   string
	OrdersFile  string
	WindowStart string
	WindowEnd   string
}

type CacheConfig struct {
	Enabled             bool
	RedisURL            string
	RedisHost           string
	RedisPort           string
	RedisPassword       string
	RedisDB             int
	DashboardTTLSeconds int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// InventoryConfig holds the cost parameters for the dry ice operation.
// Loaded once at startup and treated as immutable for the process lifetime.
type InventoryConfig struct {
	PricePerKg       float64
	ContainerSizeKg  float64
	TransportCost    float64
	HoldingRate      float64
	SubLossMinPct    float64
	SubLossMaxPct    float64
	LeadTimeDays     float64
	ServiceLevel     float64
	InitialStockKg   float64
	MaxHistory       int
	MaxAlerts        int
	AlertChannels    []string
	HealthIndicators []string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_INGEST_PORT", "8081")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "dryice")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("APP_DATA_DIR", "./data")
		viper.SetDefault("APP_REPORT_DIR", "./reports")
		viper.SetDefault("APP_ORDERS_FILE", "./data/orders.csv")
		viper.SetDefault("APP_WINDOW_START", "2024-07-01")
		viper.SetDefault("APP_WINDOW_END", "2025-06-30")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DASHBOARD_TTL_SECONDS", 60)
		viper.SetDefault("STORAGE_ENABLED", false)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "dryice-reports")
		viper.SetDefault("STORAGE_REGION", "us-east-1")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("INVENTORY_PRICE_PER_KG", 146.55)
		viper.SetDefault("INVENTORY_CONTAINER_SIZE_KG", 150.0)
		viper.SetDefault("INVENTORY_TRANSPORT_COST", 1741.94)
		viper.SetDefault("INVENTORY_HOLDING_RATE", 0.03)
		viper.SetDefault("INVENTORY_SUB_LOSS_MIN_PCT", 2.27)
		viper.SetDefault("INVENTORY_SUB_LOSS_MAX_PCT", 4.54)
		viper.SetDefault("INVENTORY_LEAD_TIME_DAYS", 1.0)
		viper.SetDefault("INVENTORY_SERVICE_LEVEL", 0.95)
		viper.SetDefault("INVENTORY_INITIAL_STOCK_KG", 0.0)
		viper.SetDefault("INVENTORY_MAX_HISTORY", 10000)
		viper.SetDefault("ALERTS_MAX_RETAINED", 1000)
		viper.SetDefault("ALERT_CHANNELS", []string{"email", "sms", "dashboard"})
		viper.SetDefault("CONTAINER_HEALTH_INDICATORS", []string{
			"insulation_efficiency",
			"seal_integrity",
			"structural_condition",
			"usage_cycles",
		})

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure data and report directories exist
		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_REPORT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				IngestPort:     viper.GetString("SERVER_INGEST_PORT"),
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
			App: AppConfig{
				DataDir:     viper.GetString("APP_DATA_DIR"),
				ReportDir:   viper.GetString("APP_REPORT_DIR"),
				OrdersFile:  viper.GetString("APP_ORDERS_FILE"),
				WindowStart: viper.GetString("APP_WINDOW_START"),
				WindowEnd:   viper.GetString("APP_WINDOW_END"),
			},
			Cache: CacheConfig{
				Enabled:             viper.GetBool("CACHE_ENABLED"),
				RedisURL:            viper.GetString("REDIS_URL"),
				RedisHost:           viper.GetString("REDIS_HOST"),
				RedisPort:           viper.GetString("REDIS_PORT"),
				RedisPassword:       viper.GetString("REDIS_PASSWORD"),
				RedisDB:             viper.GetInt("REDIS_DB"),
				DashboardTTLSeconds: viper.GetInt("CACHE_DASHBOARD_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Enabled:   viper.GetBool("STORAGE_ENABLED"),
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				Region:    viper.GetString("STORAGE_REGION"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			Inventory: InventoryConfig{
				PricePerKg:       viper.GetFloat64("INVENTORY_PRICE_PER_KG"),
				ContainerSizeKg:  viper.GetFloat64("INVENTORY_CONTAINER_SIZE_KG"),
				TransportCost:    viper.GetFloat64("INVENTORY_TRANSPORT_COST"),
				HoldingRate:      viper.GetFloat64("INVENTORY_HOLDING_RATE"),
				SubLossMinPct:    viper.GetFloat64("INVENTORY_SUB_LOSS_MIN_PCT"),
				SubLossMaxPct:    viper.GetFloat64("INVENTORY_SUB_LOSS_MAX_PCT"),
				LeadTimeDays:     viper.GetFloat64("INVENTORY_LEAD_TIME_DAYS"),
				ServiceLevel:     viper.GetFloat64("INVENTORY_SERVICE_LEVEL"),
				InitialStockKg:   viper.GetFloat64("INVENTORY_INITIAL_STOCK_KG"),
				MaxHistory:       viper.GetInt("INVENTORY_MAX_HISTORY"),
				MaxAlerts:        viper.GetInt("ALERTS_MAX_RETAINED"),
				AlertChannels:    viper.GetStringSlice("ALERT_CHANNELS"),
				HealthIndicators: viper.GetStringSlice("CONTAINER_HEALTH_INDICATORS"),
			},
		}
	})

	return instance
}

// MeanSubLossFraction returns the midpoint of the sublimation loss range as a
// fraction (the range is configured in percent).
func (c InventoryConfig) MeanSubLossFraction() float64 {
	return (c.SubLossMinPct + c.SubLossMaxPct) / 2 / 100
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
