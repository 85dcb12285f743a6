package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the tmv71d configuration
type Config struct {
	Radio struct {
		// Serial port of the radio's PC connector
		Device       string `yaml:"device"`
		BaudRate     int    `yaml:"baud_rate"`
		ReadTimeout  int    `yaml:"read_timeout_ms"`
		PollInterval int    `yaml:"poll_interval"`
		Trace        bool   `yaml:"trace"`
	} `yaml:"radio"`

	Web struct {
		Port        int    `yaml:"port"`
		BindAddress string `yaml:"bind_address"`
	} `yaml:"web"`

	Storage struct {
		DatabasePath string `yaml:"database_path"`
		MaxBackups   int    `yaml:"max_backups"`
	} `yaml:"storage"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSize    int    `yaml:"max_size"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAge     int    `yaml:"max_age"`
		Compress   bool   `yaml:"compress"`
		Console    bool   `yaml:"console"`
		Structured bool   `yaml:"structured"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	if config.Radio.BaudRate == 0 {
		config.Radio.BaudRate = 9600
	}
	if config.Radio.ReadTimeout == 0 {
		config.Radio.ReadTimeout = 500
	}
	if config.Radio.PollInterval == 0 {
		config.Radio.PollInterval = 1000
	}
	if config.Web.Port == 0 {
		config.Web.Port = 8080
	}
	if config.Web.BindAddress == "" {
		config.Web.BindAddress = "0.0.0.0"
	}
	if config.Storage.DatabasePath == "" {
		config.Storage.DatabasePath = "tmv71d.db"
	}
	if config.Storage.MaxBackups == 0 {
		config.Storage.MaxBackups = 20
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.MaxSize == 0 {
		config.Logging.MaxSize = 10
	}
	if config.Logging.MaxBackups == 0 {
		config.Logging.MaxBackups = 5
	}
	if config.Logging.MaxAge == 0 {
		config.Logging.MaxAge = 28
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Radio.Device == "" {
		return fmt.Errorf("radio device is required")
	}
	switch c.Radio.BaudRate {
	case 9600, 19200, 38400, 57600:
	default:
		return fmt.Errorf("unsupported baud rate %d", c.Radio.BaudRate)
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port %d is out of range", c.Web.Port)
	}
	return nil
}
