package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings for the three service binaries.
// Every binary loads the same document; each reads only its own section plus
// the shared ones.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Registry    RegistryConfig
	Sensor      SensorConfig
	Unified     UnifiedConfig
	Schemas     SchemasConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Metrics     MetricsConfig
}

type HTTPConfig struct {
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RegistryConfig struct {
	Port     string
	DataFile string
}

type SensorConfig struct {
	Port         string
	SensoresFile string
	LecturasFile string
}

type UnifiedConfig struct {
	Port            string
	CRMURL          string
	IoTURL          string
	UpstreamTimeout time.Duration
	MonitorInterval time.Duration
}

// SchemasConfig locates the externally supplied contract documents.
type SchemasConfig struct {
	Dir string
}

func (s SchemasConfig) Cliente() string   { return filepath.Join(s.Dir, "ClienteProveedor.cue") }
func (s SchemasConfig) Sensor() string    { return filepath.Join(s.Dir, "SensorIoT.cue") }
func (s SchemasConfig) Lectura() string   { return filepath.Join(s.Dir, "LecturaSensor.cue") }
func (s SchemasConfig) Unificado() string { return filepath.Join(s.Dir, "Unificado.cue") }

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MetricsConfig struct {
	Enabled bool
	Addr    string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the services can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "plataforma"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Registry: RegistryConfig{
			Port:     getString("REGISTRY_PORT", "8001"),
			DataFile: getString("CLIENTES_FILE", "./data/clientes.json"),
		},
		Sensor: SensorConfig{
			Port:         getString("SENSOR_PORT", "8002"),
			SensoresFile: getString("SENSORES_FILE", "./data/sensores.json"),
			LecturasFile: getString("LECTURAS_FILE", "./data/lecturas.json"),
		},
		Unified: UnifiedConfig{
			Port:            getString("UNIFIED_PORT", "4000"),
			CRMURL:          getString("CRM_URL", "http://localhost:8001"),
			IoTURL:          getString("IOT_URL", "http://localhost:8002"),
			UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT_SECONDS", 3*time.Second),
			MonitorInterval: getDuration("MONITOR_INTERVAL_SECONDS", 10*time.Second),
		},
		Schemas: SchemasConfig{
			Dir: getString("SCHEMAS_DIR", "./schemas"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBool("SERVER_ENABLE_METRICS", false),
			Addr:    getString("METRICS_ADDR", ":9100"),
		},
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// RegistryAddress returns the CRM service listen address.
func (c *Config) RegistryAddress() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.Registry.Port)
}

// SensorAddress returns the IoT service listen address.
func (c *Config) SensorAddress() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.Sensor.Port)
}

// UnifiedAddress returns the aggregation service listen address.
func (c *Config) UnifiedAddress() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.Unified.Port)
}
