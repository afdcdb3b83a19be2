package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/Simplici0/glassquote/internal/pricing"
)

const (
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultDBPath         = "./data/app.db"
	defaultDataDir        = "./data"
	defaultPDFDir         = "./pdf"
	defaultAssetsDir      = "./assets"
	defaultMaxHeightMM    = 1605
	defaultMaxWidthMM     = 2750
	defaultMinOptionPrice = 100
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	AppEnv          string
	Port            string
	DBPath          string
	DataDir         string
	PDFDir          string
	AssetsDir       string
	FontPath        string
	MaxHeightMM     float64
	MaxWidthMM      float64
	MinOptionPrice  float64
	LogLevel        string
	LogFormat       string
	ManagerLogin    string
	ManagerPassword string
	SessionSecret   string
	AutoMigrate     bool

	// Warnings collects non-fatal problems found while loading.
	Warnings []string
}

// Load reads environment variables and an optional .env file and returns a populated Config.
func Load() (*Config, error) {
	// Best-effort: production injects real environment variables.
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{
		AppEnv:          valueOrDefault(k.String("APP_ENV"), defaultAppEnv),
		Port:            valueOrDefault(k.String("PORT"), defaultPort),
		DBPath:          valueOrDefault(k.String("DB_PATH"), defaultDBPath),
		DataDir:         valueOrDefault(k.String("DATA_DIR"), defaultDataDir),
		PDFDir:          valueOrDefault(k.String("PDF_DIR"), defaultPDFDir),
		AssetsDir:       valueOrDefault(k.String("ASSETS_DIR"), defaultAssetsDir),
		FontPath:        strings.TrimSpace(k.String("FONT_PATH")),
		LogLevel:        valueOrDefault(k.String("LOG_LEVEL"), "info"),
		LogFormat:       valueOrDefault(k.String("LOG_FORMAT"), "json"),
		ManagerLogin:    strings.TrimSpace(k.String("MANAGER_LOGIN")),
		ManagerPassword: k.String("MANAGER_PASSWORD"),
		SessionSecret:   k.String("SESSION_SECRET"),
	}

	var err error
	if cfg.MaxHeightMM, err = parsePositive(k.String("MAX_HEIGHT_MM"), "MAX_HEIGHT_MM", defaultMaxHeightMM); err != nil {
		return nil, err
	}
	if cfg.MaxWidthMM, err = parsePositive(k.String("MAX_WIDTH_MM"), "MAX_WIDTH_MM", defaultMaxWidthMM); err != nil {
		return nil, err
	}
	if cfg.MinOptionPrice, err = parsePositive(k.String("MIN_OPTION_PRICE"), "MIN_OPTION_PRICE", defaultMinOptionPrice); err != nil {
		return nil, err
	}

	cfg.AutoMigrate = cfg.IsDev()
	if raw := strings.TrimSpace(k.String("AUTO_MIGRATE")); raw != "" {
		cfg.AutoMigrate = parseBool(raw)
	}

	if cfg.ManagerLogin == "" {
		cfg.Warnings = append(cfg.Warnings, "MANAGER_LOGIN is not set, manager pages are open")
	} else {
		if cfg.ManagerPassword == "" {
			cfg.Warnings = append(cfg.Warnings, "MANAGER_PASSWORD is not set")
		}
		if cfg.SessionSecret == "" {
			cfg.Warnings = append(cfg.Warnings, "SESSION_SECRET is not set")
		}
	}

	return cfg, nil
}

// IsDev reports whether the application runs in a development environment.
func (c *Config) IsDev() bool {
	switch strings.ToLower(strings.TrimSpace(c.AppEnv)) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// AuthEnabled reports whether manager pages require a login.
func (c *Config) AuthEnabled() bool {
	return c.ManagerLogin != ""
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = defaultPort
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Limits returns the pricing limits passed into the engine on every calculation.
func (c *Config) Limits() pricing.Limits {
	return pricing.Limits{
		MaxHeightMM:    c.MaxHeightMM,
		MaxWidthMM:     c.MaxWidthMM,
		MinOptionPrice: c.MinOptionPrice,
	}
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parsePositive(raw, field string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric, got %q", field, raw)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", field)
	}
	return value, nil
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
