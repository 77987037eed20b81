// Package config charge la configuration du service : variables
// d'environnement avec valeurs par défaut, recouvertes par un fichier
// YAML optionnel (CONFIG_PATH).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP        HTTPConfig      `yaml:"http"`
	DB          DBConfig        `yaml:"db"`
	Redis       RedisConfig     `yaml:"redis"`
	KafkaConfig KafkaConfig     `yaml:"kafka"`
	Fees        FeesConfig      `yaml:"fees"`
	Selection   SelectionConfig `yaml:"selection"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// FeesConfig porte les frais fixes du panier, en FCFA.
type FeesConfig struct {
	Delivery    int `yaml:"delivery"`
	Preparation int `yaml:"preparation"`
}

// SelectionConfig règle la péremption de la sélection de magasin.
// Les durées sont en unités entières pour rester lisibles en YAML.
type SelectionConfig struct {
	CacheMinutes           int     `yaml:"cache_minutes"`
	MovementThresholdKm    float64 `yaml:"movement_threshold_km"`
	SignificantDistanceKm  float64 `yaml:"significant_distance_km"`
	LocationTimeoutSeconds int     `yaml:"location_timeout_seconds"`
	LocationMaxAgeSeconds  int     `yaml:"location_max_age_seconds"`
	CoarseMaxAgeSeconds    int     `yaml:"coarse_max_age_seconds"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "pass"),
			DBName:   getEnv("DB_NAME", "storefront_db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		KafkaConfig: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKER", "localhost:9092")},
			Topic:   getEnv("KAFKA_TOPIC", "catalog-products"),
		},
		Fees: FeesConfig{
			Delivery:    getEnvInt("DELIVERY_FEE", 1000),
			Preparation: getEnvInt("PREPARATION_FEE", 500),
		},
		Selection: SelectionConfig{
			CacheMinutes:           getEnvInt("SELECTION_CACHE_MINUTES", 60),
			MovementThresholdKm:    2,
			SignificantDistanceKm:  5,
			LocationTimeoutSeconds: getEnvInt("LOCATION_TIMEOUT_SECONDS", 10),
			LocationMaxAgeSeconds:  getEnvInt("LOCATION_MAX_AGE_SECONDS", 60),
			CoarseMaxAgeSeconds:    getEnvInt("COARSE_MAX_AGE_SECONDS", 300),
		},
	}

	// le fichier YAML, s'il existe, recouvre les valeurs d'environnement
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("lecture du fichier de configuration: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("fichier de configuration illisible: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
