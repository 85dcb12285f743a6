package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	// Create a temporary directory for test files
	tempDir, err := os.MkdirTemp("", "tmv71d-config-test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	t.Run("Valid Config", func(t *testing.T) {
		configContent := `
radio:
  device: "/dev/ttyUSB0"
  baud_rate: 57600
  read_timeout_ms: 250
  trace: true

web:
  port: 8088
  bind_address: "127.0.0.1"

storage:
  database_path: "/tmp/tmv71d.db"
  max_backups: 5

logging:
  level: "debug"
  file: "/var/log/tmv71d.log"
  console: true
`
		configPath := filepath.Join(tempDir, "valid.yaml")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		// Test parsed values
		if config.Radio.Device != "/dev/ttyUSB0" {
			t.Errorf("Expected device /dev/ttyUSB0, got %s", config.Radio.Device)
		}
		if config.Radio.BaudRate != 57600 {
			t.Errorf("Expected baud rate 57600, got %d", config.Radio.BaudRate)
		}
		if config.Radio.ReadTimeout != 250 {
			t.Errorf("Expected read timeout 250, got %d", config.Radio.ReadTimeout)
		}
		if !config.Radio.Trace {
			t.Error("Expected trace enabled")
		}
		if config.Web.Port != 8088 {
			t.Errorf("Expected web port 8088, got %d", config.Web.Port)
		}
		if config.Web.BindAddress != "127.0.0.1" {
			t.Errorf("Expected bind address 127.0.0.1, got %s", config.Web.BindAddress)
		}
		if config.Storage.MaxBackups != 5 {
			t.Errorf("Expected max backups 5, got %d", config.Storage.MaxBackups)
		}
		if config.Logging.Level != "debug" {
			t.Errorf("Expected log level debug, got %s", config.Logging.Level)
		}
	})

	t.Run("Config With Defaults", func(t *testing.T) {
		// Minimal config that should get defaults applied
		configContent := `
radio:
  device: "/dev/ttyS0"
`
		configPath := filepath.Join(tempDir, "minimal.yaml")
		if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		// Test default values
		if config.Radio.BaudRate != 9600 {
			t.Errorf("Expected default baud rate 9600, got %d", config.Radio.BaudRate)
		}
		if config.Radio.ReadTimeout != 500 {
			t.Errorf("Expected default read timeout 500, got %d", config.Radio.ReadTimeout)
		}
		if config.Radio.PollInterval != 1000 {
			t.Errorf("Expected default poll interval 1000, got %d", config.Radio.PollInterval)
		}
		if config.Web.Port != 8080 {
			t.Errorf("Expected default web port 8080, got %d", config.Web.Port)
		}
		if config.Web.BindAddress != "0.0.0.0" {
			t.Errorf("Expected default bind address 0.0.0.0, got %s", config.Web.BindAddress)
		}
		if config.Storage.DatabasePath != "tmv71d.db" {
			t.Errorf("Expected default database path tmv71d.db, got %s", config.Storage.DatabasePath)
		}
		if config.Storage.MaxBackups != 20 {
			t.Errorf("Expected default max backups 20, got %d", config.Storage.MaxBackups)
		}
		if config.Logging.Level != "info" {
			t.Errorf("Expected default log level info, got %s", config.Logging.Level)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(tempDir, "does-not-exist.yaml"))
		if err == nil {
			t.Fatal("Expected error for missing config file")
		}
		if !strings.Contains(err.Error(), "failed to read config file") {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		configPath := filepath.Join(tempDir, "broken.yaml")
		if err := os.WriteFile(configPath, []byte("radio: [not a map"), 0644); err != nil {
			t.Fatalf("Failed to write config file: %v", err)
		}

		_, err := LoadConfig(configPath)
		if err == nil {
			t.Fatal("Expected error for malformed YAML")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.Radio.Device = "/dev/ttyUSB0"
		c.Radio.BaudRate = 9600
		c.Web.Port = 8080
		return c
	}

	t.Run("Valid Config", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Errorf("Expected no error, got: %v", err)
		}
	})

	t.Run("Missing Device", func(t *testing.T) {
		c := valid()
		c.Radio.Device = ""
		if err := c.Validate(); err == nil {
			t.Error("Expected error for missing device")
		}
	})

	t.Run("Bad Baud Rate", func(t *testing.T) {
		c := valid()
		c.Radio.BaudRate = 1200
		if err := c.Validate(); err == nil {
			t.Error("Expected error for unsupported baud rate")
		}
	})

	t.Run("Bad Web Port", func(t *testing.T) {
		c := valid()
		c.Web.Port = 70000
		if err := c.Validate(); err == nil {
			t.Error("Expected error for out of range port")
		}
	})
}
