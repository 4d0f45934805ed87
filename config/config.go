package config

import (
	"flag"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	defaultServerAddress       = ":8080"
	defaultDatabaseDSN         = ""
	defaultLogLevel            = "debug"
	defaultAuthCookie          = "auth_token"
	defaultOrderRateLimit      = 20
	defaultOrderRateWindow     = 60 * time.Second
	defaultReferralRateLimit   = 10
	defaultReferralRateWindow  = 5 * time.Minute
	defaultCancellationWindow  = 5 * time.Minute
	defaultShutdownTimeout     = 10 * time.Second
	defaultSweepInterval       = time.Minute
	defaultReferralBonusPoints = 50
)

type Config struct {
	ServerAddr          string        `yaml:"server_addr"`
	DatabaseDSN         string        `yaml:"database_dsn"`
	LogLevel            string        `yaml:"log_level"`
	AuthSecret          string        `yaml:"auth_secret"`
	AuthCookie          string        `yaml:"auth_cookie"`
	OrderRateLimit      int           `yaml:"order_rate_limit"`
	OrderRateWindow     time.Duration `yaml:"order_rate_window"`
	ReferralRateLimit   int           `yaml:"referral_rate_limit"`
	ReferralRateWindow  time.Duration `yaml:"referral_rate_window"`
	CancellationWindow  time.Duration `yaml:"cancellation_window"`
	ShutdownTimeout     time.Duration `yaml:"shutdown_timeout"`
	SweepInterval       time.Duration `yaml:"sweep_interval"`
	ReferralBonusPoints int64         `yaml:"referral_bonus_points"`
}

var (
	once      sync.Once
	singleton *Config
	initErr   error
)

// New returns new Config. It parses config file, command line and environment variables only once.
// Environment variables take precedence over flags, flags over the config file.
func New() (*Config, error) {
	once.Do(func() {
		singleton, initErr = parse(os.Args[1:], os.Getenv)
	})

	return singleton, initErr
}

func defaults() Config {
	return Config{
		ServerAddr:          defaultServerAddress,
		DatabaseDSN:         defaultDatabaseDSN,
		LogLevel:            defaultLogLevel,
		AuthCookie:          defaultAuthCookie,
		OrderRateLimit:      defaultOrderRateLimit,
		OrderRateWindow:     defaultOrderRateWindow,
		ReferralRateLimit:   defaultReferralRateLimit,
		ReferralRateWindow:  defaultReferralRateWindow,
		CancellationWindow:  defaultCancellationWindow,
		ShutdownTimeout:     defaultShutdownTimeout,
		SweepInterval:       defaultSweepInterval,
		ReferralBonusPoints: defaultReferralBonusPoints,
	}
}

func parse(args []string, getenv func(string) string) (*Config, error) {
	cfg := defaults()
	fl := defaults()
	var configFile string

	// initialize flags
	fs := flag.NewFlagSet("foodorder", flag.ContinueOnError)
	fs.StringVar(&configFile, "c", "", "path to yaml config file")
	fs.StringVar(&fl.ServerAddr, "a", defaultServerAddress, "server address")
	fs.StringVar(&fl.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
	fs.StringVar(&fl.LogLevel, "l", defaultLogLevel, "log level")
	fs.StringVar(&fl.AuthSecret, "s", "", "session token secret")
	fs.IntVar(&fl.OrderRateLimit, "order-rate-limit", defaultOrderRateLimit, "order requests per window and client")
	fs.DurationVar(&fl.OrderRateWindow, "order-rate-window", defaultOrderRateWindow, "order rate limit window")
	fs.IntVar(&fl.ReferralRateLimit, "referral-rate-limit", defaultReferralRateLimit, "referral requests per window and client")
	fs.DurationVar(&fl.ReferralRateWindow, "referral-rate-window", defaultReferralRateWindow, "referral rate limit window")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if v := getenv("CONFIG_FILE"); v != "" {
		configFile = v
	}
	if configFile != "" {
		if err := loadFile(configFile, &cfg); err != nil {
			return nil, err
		}
	}

	// only flags given on the command line override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.ServerAddr = fl.ServerAddr
		case "d":
			cfg.DatabaseDSN = fl.DatabaseDSN
		case "l":
			cfg.LogLevel = fl.LogLevel
		case "s":
			cfg.AuthSecret = fl.AuthSecret
		case "order-rate-limit":
			cfg.OrderRateLimit = fl.OrderRateLimit
		case "order-rate-window":
			cfg.OrderRateWindow = fl.OrderRateWindow
		case "referral-rate-limit":
			cfg.ReferralRateLimit = fl.ReferralRateLimit
		case "referral-rate-window":
			cfg.ReferralRateWindow = fl.ReferralRateWindow
		}
	})

	// if environment variable is set, then using it
	if v := getenv("RUN_ADDRESS"); v != "" {
		cfg.ServerAddr = v
	}
	if v := getenv("DATABASE_URI"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("AUTH_SECRET"); v != "" {
		cfg.AuthSecret = v
	}
	if v := getenv("AUTH_COOKIE"); v != "" {
		cfg.AuthCookie = v
	}
	if err := envInt(getenv, "ORDER_RATE_LIMIT", &cfg.OrderRateLimit); err != nil {
		return nil, err
	}
	if err := envDuration(getenv, "ORDER_RATE_WINDOW", &cfg.OrderRateWindow); err != nil {
		return nil, err
	}
	if err := envInt(getenv, "REFERRAL_RATE_LIMIT", &cfg.ReferralRateLimit); err != nil {
		return nil, err
	}
	if err := envDuration(getenv, "REFERRAL_RATE_WINDOW", &cfg.ReferralRateWindow); err != nil {
		return nil, err
	}
	if err := envDuration(getenv, "CANCEL_WINDOW", &cfg.CancellationWindow); err != nil {
		return nil, err
	}
	if err := envDuration(getenv, "SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate rejects limits and durations the service cannot run with
func (c *Config) validate() error {
	positive := []struct {
		name  string
		value int64
	}{
		{"order rate limit", int64(c.OrderRateLimit)},
		{"order rate window", int64(c.OrderRateWindow)},
		{"referral rate limit", int64(c.ReferralRateLimit)},
		{"referral rate window", int64(c.ReferralRateWindow)},
		{"cancellation window", int64(c.CancellationWindow)},
		{"shutdown timeout", int64(c.ShutdownTimeout)},
		{"sweep interval", int64(c.SweepInterval)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive", p.name)
		}
	}
	if c.ReferralBonusPoints < 0 {
		return fmt.Errorf("referral bonus points must not be negative")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func envInt(getenv func(string) string, name string, dst *int) error {
	v := getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func envDuration(getenv func(string) string, name string, dst *time.Duration) error {
	v := getenv(name)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}
