// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/relabs-tech/mems_bsp/internal/bus"
)

// Config holds all application configuration values.
type Config struct {
	MQTT   MQTTConfig   `yaml:"mqtt"`
	Topics TopicsConfig `yaml:"topics"`

	// Timing
	SampleInterval     time.Duration `yaml:"sample_interval"`
	ConsoleLogInterval time.Duration `yaml:"console_log_interval"`

	Sensors       []SensorConfig      `yaml:"sensors"`
	Env           EnvConfig           `yaml:"env"`
	Serial        SerialConfig        `yaml:"serial"`
	Display       DisplayConfig       `yaml:"display"`
	RegisterDebug RegisterDebugConfig `yaml:"register_debug"`
}

type MQTTConfig struct {
	Broker           string `yaml:"broker"`
	ClientIDProducer string `yaml:"client_id_producer"`
	ClientIDConsole  string `yaml:"client_id_console"`
	ClientIDDisplay  string `yaml:"client_id_display"`
}

// TopicsConfig names the MQTT topics. Samples go to <prefix>/<sensor>/<channel>.
type TopicsConfig struct {
	Prefix string `yaml:"prefix"`
	Pose   string `yaml:"pose"`
	Env    string `yaml:"env"`
}

// SensorConfig describes one MEMS part and how it is wired.
type SensorConfig struct {
	Name string `yaml:"name"`
	// Part is one of lis2dh12, asm330lhh, a3g4250d, lis3mdl, ais3624dq.
	Part string `yaml:"part"`
	// Bus is i2c (periph), devi2c (raw /dev/i2c-N), spi4 or spi3.
	Bus     string `yaml:"bus"`
	Device  string `yaml:"device"` // periph bus name or /dev path; empty picks the first
	Address uint16 `yaml:"address"`
	SPIHz   int64  `yaml:"spi_hz"`

	// Requested settings; the driver picks the nearest supported step at or
	// above each value. Zero keeps the driver default.
	ODR        float32 `yaml:"odr"`
	AccFS      int32   `yaml:"acc_full_scale"`
	GyroFS     int32   `yaml:"gyro_full_scale"`
	MagFS      int32   `yaml:"mag_full_scale"`
	Mode       string  `yaml:"mode"` // lis2dh12 only: hr, nm, lp
	DRDYPin    string  `yaml:"drdy_pin"`
	SkipProbe  bool    `yaml:"skip_probe"`
	PublishRaw bool    `yaml:"publish_raw"`
}

// EnvConfig configures the optional BME280/BMP280 companion sensor.
type EnvConfig struct {
	Enable  bool   `yaml:"enable"`
	Bus     string `yaml:"bus"` // i2c or spi
	Device  string `yaml:"device"`
	Address uint16 `yaml:"address"`
}

// SerialConfig configures the NDJSON sample stream.
type SerialConfig struct {
	Enable bool   `yaml:"enable"`
	Port   string `yaml:"port"`
	Baud   uint   `yaml:"baud"`
}

type DisplayConfig struct {
	Enable   bool          `yaml:"enable"`
	Device   string        `yaml:"device"`
	Address  uint16        `yaml:"address"`
	Sensor   string        `yaml:"sensor"`
	Channel  string        `yaml:"channel"` // acc, gyro or mag
	Interval time.Duration `yaml:"interval"`
}

type RegisterDebugConfig struct {
	Listen      string `yaml:"listen"`
	AllowWrites bool   `yaml:"allow_writes"`
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: only reachable through InitGlobal and Get.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: write lock for initialization, read lock for Get().
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the YAML configuration file, applies defaults and validates it.
func Load(configPath string) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(b)
}

// Parse decodes a YAML document into a Config.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MQTT.ClientIDProducer == "" {
		c.MQTT.ClientIDProducer = "mems-producer"
	}
	if c.MQTT.ClientIDConsole == "" {
		c.MQTT.ClientIDConsole = "mems-console"
	}
	if c.MQTT.ClientIDDisplay == "" {
		c.MQTT.ClientIDDisplay = "mems-display"
	}
	if c.Topics.Prefix == "" {
		c.Topics.Prefix = "mems"
	}
	if c.Topics.Pose == "" {
		c.Topics.Pose = c.Topics.Prefix + "/pose"
	}
	if c.Topics.Env == "" {
		c.Topics.Env = c.Topics.Prefix + "/env"
	}
	if c.SampleInterval <= 0 {
		c.SampleInterval = 100 * time.Millisecond
	}
	if c.ConsoleLogInterval <= 0 {
		c.ConsoleLogInterval = time.Second
	}
	for i := range c.Sensors {
		s := &c.Sensors[i]
		if s.SPIHz == 0 {
			s.SPIHz = 1_000_000
		}
	}
	if c.Env.Bus == "" {
		c.Env.Bus = "i2c"
	}
	if c.Env.Address == 0 {
		c.Env.Address = 0x76
	}
	if c.Serial.Baud == 0 {
		c.Serial.Baud = 115200
	}
	if c.Display.Address == 0 {
		c.Display.Address = 0x3C
	}
	if c.Display.Channel == "" {
		c.Display.Channel = "acc"
	}
	if c.Display.Interval <= 0 {
		c.Display.Interval = 200 * time.Millisecond
	}
	if c.RegisterDebug.Listen == "" {
		c.RegisterDebug.Listen = ":8080"
	}
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}
	if len(c.Sensors) == 0 {
		return fmt.Errorf("at least one sensor is required")
	}
	seen := map[string]bool{}
	for i, s := range c.Sensors {
		if s.Name == "" {
			return fmt.Errorf("sensors[%d].name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("sensors[%d].name %q is duplicated", i, s.Name)
		}
		seen[s.Name] = true
		if s.Part == "" {
			return fmt.Errorf("sensors[%d].part is required", i)
		}
		t, err := bus.ParseType(s.Bus)
		if err != nil {
			return fmt.Errorf("sensors[%d].bus: %w", i, err)
		}
		if t == bus.I2C && s.Address == 0 {
			return fmt.Errorf("sensors[%d].address is required on i2c", i)
		}
		if s.ODR < 0 {
			return fmt.Errorf("sensors[%d].odr must be >= 0", i)
		}
	}
	if c.Env.Enable && c.Env.Bus != "i2c" && c.Env.Bus != "spi" {
		return fmt.Errorf("env.bus must be i2c or spi, got %q", c.Env.Bus)
	}
	if c.Serial.Enable && c.Serial.Port == "" {
		return fmt.Errorf("serial.port is required when serial.enable is true")
	}
	if c.Display.Enable {
		if c.Display.Sensor == "" {
			return fmt.Errorf("display.sensor is required when display.enable is true")
		}
		if !seen[c.Display.Sensor] {
			return fmt.Errorf("display.sensor %q is not a configured sensor", c.Display.Sensor)
		}
	}
	return nil
}

// Sensor returns the configuration of the named sensor.
func (c *Config) Sensor(name string) (SensorConfig, bool) {
	for _, s := range c.Sensors {
		if s.Name == name {
			return s, true
		}
	}
	return SensorConfig{}, false
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
