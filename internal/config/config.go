package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB        DBConfig
	Server    ServerConfig
	Weather   WeatherConfig
	Geocoding GeocodingConfig
	Location  LocationConfig
	Search    SearchConfig
	Seeder    SeederConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
	DBTypeSQLite     DBType = "sqlite"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Path is the database file used when Type is sqlite
	Path string
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	switch c.Type {
	case DBTypeMemory:
		if c.Name != "" && c.Name != "skyscout" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared", c.Name)
		}
		return "file::memory:?cache=shared"
	case DBTypeSQLite:
		return fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", c.Path)
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsSQLite returns true for both the in-memory and the file backed SQLite database
func (c DBConfig) IsSQLite() bool {
	return c.Type == DBTypeMemory || c.Type == DBTypeSQLite
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// WeatherConfig configures the forecast API
type WeatherConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GeocoderProvider selects the city search backend
type GeocoderProvider string

const (
	GeocoderOpenMeteo GeocoderProvider = "openmeteo"
	GeocoderLocal     GeocoderProvider = "local"
)

// GeocodingConfig configures city search
type GeocodingConfig struct {
	Provider GeocoderProvider
	BaseURL  string
	Count    int
	Language string
	Timeout  time.Duration
}

// LocationConfig configures how the device location is resolved and stored
type LocationConfig struct {
	// Platform selects the permission kind: "ios" or anything else
	Platform string
	// Permission is granted, denied or prompt
	Permission string
	// Geolocator is ip or static
	Geolocator string
	StaticLat  float64
	StaticLon  float64
	IPAPIURL   string
	// FixTimeout bounds a single position request
	FixTimeout time.Duration
	// FixMaxAge is the oldest OS-level cached fix that is accepted
	FixMaxAge time.Duration
	// RecordMaxAge expires the persisted location; zero trusts it forever
	RecordMaxAge time.Duration
	// Store is db or file
	Store    string
	StateDir string
}

// SearchConfig configures the incremental city search session
type SearchConfig struct {
	Debounce       time.Duration
	MinQueryLength int
}

// SeederConfig holds settings for gazetteer import
type SeederConfig struct {
	DataDir       string
	BatchSize     int
	MinPopulation int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory && dbType != DBTypeSQLite {
		dbType = DBTypeMemory
	}

	provider := GeocoderProvider(getEnv("GEOCODER_PROVIDER", string(GeocoderOpenMeteo)))
	if provider != GeocoderOpenMeteo && provider != GeocoderLocal {
		provider = GeocoderOpenMeteo
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "skyscout"),
			Password: getEnv("DB_PASSWORD", "skyscout_password"),
			Name:     getEnv("DB_NAME", "skyscout"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "skyscout.db"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Weather: WeatherConfig{
			BaseURL: getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com/v1"),
			Timeout: getEnvAsDuration("WEATHER_TIMEOUT", 10*time.Second),
		},
		Geocoding: GeocodingConfig{
			Provider: provider,
			BaseURL:  getEnv("GEOCODING_BASE_URL", "https://geocoding-api.open-meteo.com/v1"),
			Count:    getEnvAsInt("GEOCODING_COUNT", 5),
			Language: getEnv("GEOCODING_LANGUAGE", "en"),
			Timeout:  getEnvAsDuration("GEOCODING_TIMEOUT", 10*time.Second),
		},
		Location: LocationConfig{
			Platform:     getEnv("LOCATION_PLATFORM", runtime.GOOS),
			Permission:   getEnv("LOCATION_PERMISSION", "granted"),
			Geolocator:   getEnv("LOCATION_GEOLOCATOR", "ip"),
			StaticLat:    getEnvAsFloat("LOCATION_STATIC_LAT", 0),
			StaticLon:    getEnvAsFloat("LOCATION_STATIC_LON", 0),
			IPAPIURL:     getEnv("LOCATION_IP_API_URL", "http://ip-api.com/json"),
			FixTimeout:   getEnvAsDuration("LOCATION_FIX_TIMEOUT", 15*time.Second),
			FixMaxAge:    getEnvAsDuration("LOCATION_FIX_MAX_AGE", 10*time.Second),
			RecordMaxAge: getEnvAsDuration("LOCATION_RECORD_MAX_AGE", 0),
			Store:        getEnv("LOCATION_STORE", "db"),
			StateDir:     getEnv("LOCATION_STATE_DIR", defaultStateDir()),
		},
		Search: SearchConfig{
			Debounce:       getEnvAsDuration("SEARCH_DEBOUNCE", 500*time.Millisecond),
			MinQueryLength: getEnvAsInt("SEARCH_MIN_QUERY_LENGTH", 2),
		},
		Seeder: SeederConfig{
			DataDir:       getEnv("SEEDER_DATA_DIR", "data"),
			BatchSize:     getEnvAsInt("SEEDER_BATCH_SIZE", 10000),
			MinPopulation: getEnvAsInt("SEEDER_MIN_POPULATION", 10000),
		},
	}

	return config, nil
}

func defaultStateDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h + string(os.PathSeparator) + ".skyscout"
	}
	return ".skyscout"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("500ms") or plain milliseconds ("500")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
