package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/evermore-events/weddingops/internal/money"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

// BillingConfig holds the fixed-schedule knobs. The legacy modules carried
// two conflicting deposit rules; the canonical one is configuration so the
// business can switch without a release.
type BillingConfig struct {
	DepositPercent  int
	DepositRoundTo  money.Money
	BalanceLeadDays int
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Billing     BillingConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Billing: BillingConfig{
			DepositPercent:  v.GetInt("BILLING_DEPOSIT_PERCENT"),
			DepositRoundTo:  money.Money(v.GetInt64("BILLING_DEPOSIT_ROUND_TO_CENTS")),
			BalanceLeadDays: v.GetInt("BILLING_BALANCE_LEAD_DAYS"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7190
	}
	if cfg.Billing.DepositPercent == 0 {
		cfg.Billing.DepositPercent = 50
	}
	if cfg.Billing.DepositRoundTo == 0 && !v.IsSet("BILLING_DEPOSIT_ROUND_TO_CENTS") {
		cfg.Billing.DepositRoundTo = money.FromDollars(100)
	}
	if cfg.Billing.BalanceLeadDays == 0 {
		cfg.Billing.BalanceLeadDays = 60
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Billing.DepositPercent < 0 || cfg.Billing.DepositPercent > 100 {
		return fmt.Errorf("BILLING_DEPOSIT_PERCENT must be between 0 and 100")
	}
	return nil
}
