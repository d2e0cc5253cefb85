package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Parking  ParkingConfig  `mapstructure:"parking"`
	Fees     FeesConfig     `mapstructure:"fees"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// ParkingConfig selects the strategy variants at process start.
type ParkingConfig struct {
	AllocationStrategy    string `mapstructure:"allocation_strategy"`
	PricingStrategy       string `mapstructure:"pricing_strategy"`
	AvailabilityPublisher string `mapstructure:"availability_publisher"`
	Currency              string `mapstructure:"currency"`
}

// FeesConfig tunes the degressive pricing strategy. All amounts are in
// minor currency units. Day/night and weekend factors are evaluated in
// Timezone, a fixed processing timezone independent of any lot's own.
type FeesConfig struct {
	FirstHourRateMinor       int64   `mapstructure:"first_hour_rate_minor"`
	MidHoursRateMinor        int64   `mapstructure:"mid_hours_rate_minor"`
	LongStayRateMinor        int64   `mapstructure:"long_stay_rate_minor"`
	GraceMinutes             int64   `mapstructure:"grace_minutes"`
	OverstayThresholdMinutes int64   `mapstructure:"overstay_threshold_minutes"`
	OverstayPenaltyMinor     int64   `mapstructure:"overstay_penalty_minor"`
	DayStart                 string  `mapstructure:"day_start"`
	DayEnd                   string  `mapstructure:"day_end"`
	NightFactor              float64 `mapstructure:"night_factor"`
	WeekendFactor            float64 `mapstructure:"weekend_factor"`
	Timezone                 string  `mapstructure:"timezone"`
}

func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "parking")
	v.SetDefault("database.password", "parking")
	v.SetDefault("database.name", "parking")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("parking.allocation_strategy", "entrance_nearest")
	v.SetDefault("parking.pricing_strategy", "degressive_day_night_weekend")
	v.SetDefault("parking.availability_publisher", "logging")
	v.SetDefault("parking.currency", "INR")

	v.SetDefault("fees.first_hour_rate_minor", 4000)
	v.SetDefault("fees.mid_hours_rate_minor", 2500)
	v.SetDefault("fees.long_stay_rate_minor", 1500)
	v.SetDefault("fees.grace_minutes", 10)
	v.SetDefault("fees.overstay_threshold_minutes", 720)
	v.SetDefault("fees.overstay_penalty_minor", 20000)
	v.SetDefault("fees.day_start", "08:00")
	v.SetDefault("fees.day_end", "20:00")
	v.SetDefault("fees.night_factor", 0.8)
	v.SetDefault("fees.weekend_factor", 1.2)
	v.SetDefault("fees.timezone", "UTC")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/parking-service")

	v.SetEnvPrefix("PARKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
