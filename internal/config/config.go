package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // postgres, mysql
		DSN    string `yaml:"url"`
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
		Enabled      bool   `yaml:"enabled"`
	} `yaml:"email"`

	Storage struct {
		Type     string `yaml:"type"` // local
		BasePath string `yaml:"base_path"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"storage"`

	Upload struct {
		MaxReceiptSize   int64    `yaml:"max_receipt_size"`   // bytes
		MaxSignatureSize int64    `yaml:"max_signature_size"` // bytes
		AllowedTypes     []string `yaml:"allowed_types"`      // MIME types for receipt images
	} `yaml:"upload"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	RateLimit struct {
		Enabled       bool `yaml:"enabled"`
		WindowSeconds int  `yaml:"window_seconds"`
		MaxRequests   int  `yaml:"max_requests"`
	} `yaml:"ratelimit"`

	Lockout struct {
		WindowSeconds int `yaml:"window_seconds"`
		MaxFails      int `yaml:"max_fails"`
	} `yaml:"lockout"`

	Office struct {
		Name          string `yaml:"name"`
		WhatsAppPhone string `yaml:"whatsapp_phone"`
	} `yaml:"office"`

	FirstAdminEmail    string `yaml:"-"`
	FirstAdminPassword string `yaml:"-"`
}

var AppConfig *Config

// RateLimitWindow returns the limiter window as a duration.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// LockoutWindow returns the login-lockout window as a duration.
func (c *Config) LockoutWindow() time.Duration {
	return time.Duration(c.Lockout.WindowSeconds) * time.Second
}

// LoadConfig loads config.yaml, or builds the config from environment
// variables when DATABASE_URL is set (test mode).
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
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		cfg.FirstAdminEmail = os.Getenv("FIRST_ADMIN_EMAIL")
		cfg.FirstAdminPassword = os.Getenv("FIRST_ADMIN_PASSWORD")
		AppConfig = &cfg
		return
	}

	log.Println("Loading configuration from environment (test mode)")

	cfg.Database.DSN = dbURL
	cfg.Database.Driver = envStr("DATABASE_DRIVER", "postgres")
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Upload.MaxReceiptSize == 0 {
		cfg.Upload.MaxReceiptSize = 8 * 1024 * 1024 // 8MB
	}
	if cfg.Upload.MaxSignatureSize == 0 {
		cfg.Upload.MaxSignatureSize = 2 * 1024 * 1024
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = 60
	}
	if cfg.Lockout.WindowSeconds == 0 {
		cfg.Lockout.WindowSeconds = 15 * 60
	}
	if cfg.Lockout.MaxFails == 0 {
		cfg.Lockout.MaxFails = 6
	}
	if cfg.Office.Name == "" {
		cfg.Office.Name = "Law Office of Legal Services and Consultations"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = envStr("REDIS_ADDR", "localhost:6379")
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
