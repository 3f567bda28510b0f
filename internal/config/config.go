package config

import (
	"os"
	"strconv"

	"cobfacil_backend/internal/logger"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Env     string `yaml:"env"`
		BaseURL string `yaml:"base_url"` // used in email links
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
	} `yaml:"email"`

	Websocket struct {
		SendBuffer int `yaml:"send_buffer"` // outbound frames queued per client
	} `yaml:"websocket"`

	Worker struct {
		OverdueInterval int `yaml:"overdue_interval"` // minutes between overdue sweeps
	} `yaml:"worker"`
}

var AppConfig *Config

// LoadConfig loads config.yaml, or falls back to environment variables when
// DATABASE_URL is set (test/CI mode, same convention as the deploy scripts).
func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			logger.Fatal("failed to open config file", "path", configPath, "error", err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			logger.Fatal("failed to parse config file", "path", configPath, "error", err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	logger.Info("loading configuration from environment")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.Server.BaseURL = os.Getenv("APP_BASE_URL")
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "no-reply@cobfacil.com"
	cfg.Email.FromName = "CobFácil"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.JWT.TTL == 0 {
		cfg.JWT.TTL = 60
	}
	if cfg.Websocket.SendBuffer == 0 {
		cfg.Websocket.SendBuffer = 256
	}
	if cfg.Worker.OverdueInterval == 0 {
		cfg.Worker.OverdueInterval = 60
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:4000"
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
