package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"readTimeout"`
		WriteTimeout    time.Duration `yaml:"writeTimeout"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
		AllowedOrigins  []string      `yaml:"allowedOrigins"`
		RateLimit       struct {
			Capacity   int `yaml:"capacity"`
			RefillRate int `yaml:"refillRate"`
		} `yaml:"rateLimit"`
	} `yaml:"server"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	Analysis struct {
		Delay       time.Duration `yaml:"delay"`
		HistorySize int           `yaml:"historySize"`
		Classifier  string        `yaml:"classifier"` // random | openai
		Seed        uint64        `yaml:"seed"`       // 0 = random seed
		SessionTTL  time.Duration `yaml:"sessionTTL"`
	} `yaml:"analysis"`

	Upload struct {
		MaxBytes      int64  `yaml:"maxBytes"`
		Store         string `yaml:"store"` // memory | minio
		MemoryEntries int    `yaml:"memoryEntries"`
		MemoryBytes   int64  `yaml:"memoryBytes"`
	} `yaml:"upload"`

	Catalog struct {
		Source string `yaml:"source"` // builtin | mysql | postgres
		Seed   bool   `yaml:"seed"`
	} `yaml:"catalog"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
		PublicURL  string `yaml:"publicURL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey  string `yaml:"apiKey"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"baseURL"`
	} `yaml:"openai"`
}

// Default returns a config that runs with no external services.
func Default() *Config {
	var c Config
	c.Server.Port = 8080
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.ShutdownTimeout = 5 * time.Second
	c.Server.AllowedOrigins = []string{"*"}
	c.Server.RateLimit.Capacity = 60
	c.Server.RateLimit.RefillRate = 1
	c.Log.Level = "info"
	c.Analysis.Delay = 3 * time.Second
	c.Analysis.HistorySize = 5
	c.Analysis.Classifier = "random"
	c.Analysis.SessionTTL = 30 * time.Minute
	c.Upload.MaxBytes = 5 * 1024 * 1024
	c.Upload.Store = "memory"
	c.Upload.MemoryEntries = 64
	c.Upload.MemoryBytes = 64 << 20
	c.Catalog.Source = "builtin"
	c.Database.SSLMode = "disable"
	c.Minio.BucketName = "plant-uploads"
	return &c
}

// Load reads the yaml file over Default. A missing file is not an error;
// environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("CLASSIFIER"); v != "" {
		c.Analysis.Classifier = v
	}
	if v := os.Getenv("ANALYSIS_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ANALYSIS_DELAY: %w", err)
		}
		c.Analysis.Delay = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate rejects settings the service can't start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Analysis.Delay < 0 {
		errs = append(errs, errors.New("analysis.delay must not be negative"))
	}
	if c.Analysis.HistorySize <= 0 {
		errs = append(errs, errors.New("analysis.historySize must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.maxBytes must be positive"))
	}
	if c.Upload.MemoryBytes < 0 {
		errs = append(errs, errors.New("upload.memoryBytes must not be negative"))
	}
	switch strings.ToLower(c.Analysis.Classifier) {
	case "random":
	case "openai":
		if c.OpenAI.APIKey == "" {
			errs = append(errs, errors.New("openai classifier needs openai.apiKey or OPENAI_API_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown analysis.classifier %q", c.Analysis.Classifier))
	}
	switch strings.ToLower(c.Upload.Store) {
	case "memory":
	case "minio":
		if c.Minio.Endpoint == "" || c.Minio.BucketName == "" {
			errs = append(errs, errors.New("minio store needs minio.endpoint and minio.bucketName"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown upload.store %q", c.Upload.Store))
	}
	switch strings.ToLower(c.Catalog.Source) {
	case "builtin", "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unknown catalog.source %q", c.Catalog.Source))
	}
	return errors.Join(errs...)
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq key=value connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
