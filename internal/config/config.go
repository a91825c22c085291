package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config carries everything the application reads from the environment. The
// replenishment fallbacks live here so planning code never hard-codes them.
type Config struct {
	DatabaseURL    string
	ServerPort     int
	JWTSecret      string
	AllowedOrigins []string

	// Sourcing fallbacks applied when a SKU has no preferred vendor or no
	// recorded unit cost.
	DefaultVendorCode    string
	DefaultWarehouseCode string
	FallbackUnitCost     decimal.Decimal
}

// Load reads configuration from the environment, with a .env file as a
// development convenience. Missing required values fail here, not at first
// use.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:5173"})
	v.SetDefault("DEFAULT_VENDOR_CODE", "V-GENERIC")
	v.SetDefault("DEFAULT_WAREHOUSE_CODE", "MAIN")
	v.SetDefault("FALLBACK_UNIT_COST", "1.00")

	cfg := &Config{
		DatabaseURL:          v.GetString("DATABASE_URL"),
		ServerPort:           v.GetInt("SERVER_PORT"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		AllowedOrigins:       v.GetStringSlice("ALLOWED_ORIGINS"),
		DefaultVendorCode:    v.GetString("DEFAULT_VENDOR_CODE"),
		DefaultWarehouseCode: v.GetString("DEFAULT_WAREHOUSE_CODE"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cost, err := decimal.NewFromString(v.GetString("FALLBACK_UNIT_COST"))
	if err != nil || !cost.IsPositive() {
		return nil, fmt.Errorf("FALLBACK_UNIT_COST must be a positive decimal, got %q", v.GetString("FALLBACK_UNIT_COST"))
	}
	cfg.FallbackUnitCost = cost

	return cfg, nil
}
