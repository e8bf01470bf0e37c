package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the water tank level backend
type Config struct {
	Server      ServerConfig
	Calibration CalibrationBounds
	Display     DisplayConfig
	MQTT        MQTTConfig
	Database    DatabaseConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CalibrationBounds maps raw sensor distances onto the tank endpoints.
// The sensor looks down at the water surface, so MinDistance is the
// full mark (level 100%) and MaxDistance the empty mark (level 0%).
// Loaded once at startup and never mutated afterwards.
type CalibrationBounds struct {
	MinDistance int
	MaxDistance int
}

// DisplayConfig holds presentation settings for API responses
type DisplayConfig struct {
	Timezone string
}

// MQTTConfig holds MQTT broker configuration for the ingestion listener
type MQTTConfig struct {
	BrokerURL     string
	ClientID      string
	Username      string
	Password      string
	KeepAlive     time.Duration
	PingTimeout   time.Duration
	TopicDistance string
}

// DatabaseConfig holds PostgreSQL database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Load loads configuration from environment variables. The calibration
// bounds are mandatory and validated here: a process serving levels
// computed from bad bounds would be silently wrong, so it must refuse
// to start instead.
func Load() (*Config, error) {
	minDistance, err := requireIntEnv("MIN_NIVEL")
	if err != nil {
		return nil, err
	}
	maxDistance, err := requireIntEnv("MAX_NIVEL")
	if err != nil {
		return nil, err
	}
	if maxDistance <= minDistance {
		return nil, fmt.Errorf("invalid calibration: MAX_NIVEL (%d) must be greater than MIN_NIVEL (%d)", maxDistance, minDistance)
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8000"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Calibration: CalibrationBounds{
			MinDistance: minDistance,
			MaxDistance: maxDistance,
		},
		Display: DisplayConfig{
			Timezone: getEnv("DISPLAY_TIMEZONE", "America/Recife"),
		},
		MQTT: MQTTConfig{
			BrokerURL:     getMQTTBrokerURL(),
			ClientID:      getEnv("MQTT_CLIENT_ID", "caixa_dagua_listener"),
			Username:      getEnv("MQTT_USERNAME", ""),
			Password:      getEnv("MQTT_PASSWORD", ""),
			KeepAlive:     getDurationEnv("MQTT_KEEP_ALIVE", 30*time.Second),
			PingTimeout:   getDurationEnv("MQTT_PING_TIMEOUT", 10*time.Second),
			TopicDistance: getEnv("MQTT_TOPIC_DISTANCE", "caixa-dagua/sensor/distancia"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "caixa_dagua"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
	}, nil
}

// getEnv returns environment variable value or default if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// requireIntEnv returns a mandatory integer environment variable
func requireIntEnv(key string) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, fmt.Errorf("required environment variable %s is not set", key)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s (%q) is not an integer: %w", key, value, err)
	}
	return n, nil
}

// getDurationEnv returns duration environment variable value or default if not set
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getMQTTBrokerURL returns MQTT broker URL with tcp:// prefix if not present
// Supports both "localhost:1883" and "tcp://localhost:1883" formats
func getMQTTBrokerURL() string {
	broker := getEnv("MQTT_BROKER", getEnv("MQTT_BROKER_URL", "tcp://localhost:1883"))

	if len(broker) > 4 && broker[:4] != "tcp:" && broker[:3] != "ssl" {
		return "tcp://" + broker
	}
	return broker
}
