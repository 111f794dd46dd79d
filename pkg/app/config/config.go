package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

// Config holds the application configuration.
// Config defines the struct of global config and the struct of the configuration file.
type Config struct {
	// Gpio is the BCM pin number of the measured input signal.
	Gpio int `yaml:"gpio"`
	// ResetGpio is the BCM pin number of the reset net, -1 if unused.
	ResetGpio int `yaml:"resetgpio"`
	// ResetTerminator is the pull resistor of the reset line (pullup|pulldown|none).
	ResetTerminator string `yaml:"resetterminator"`
	// SampleRate is the sample clock rate in Hz.
	SampleRate int `yaml:"samplerate"`
	// SamplePeriod is the sample clock period derived from SampleRate.
	SamplePeriod time.Duration   `yaml:"-"`
	Flag         FlagConfig      `yaml:"-"`
	Log          LogConfig       `yaml:"log"`
	Webserver    WebserverConfig `yaml:"webserver"`
	MQTT         MQTTConfig      `yaml:"mqtt"`
}

// FlagConfig defines the configured flags (parameters).
type FlagConfig struct {
	LogLevel   string
	ConfigFile string
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file.
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file.
type MQTTConfig struct {
	Connection  string        `yaml:"connection"`
	Interval    time.Duration `yaml:"-"`
	IntervalInt int           `yaml:"interval"`
	Topic       string        `yaml:"topic"`
	// DeltaDuty is the duty cycle change (percentage points) that triggers
	// a publish before the interval elapses.
	DeltaDuty float64 `yaml:"deltaduty"`
}

// LogConfig defines the struct of the log configuration and configuration file.
type LogConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

func NewConfig() *Config {
	return &Config{
		Gpio:            17,
		ResetGpio:       -1,
		ResetTerminator: "pulldown",
		SampleRate:      1000,
		Flag:            FlagConfig{},
		Log: LogConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version": true,
				"health":  true,
				"data":    true,
			},
		},
		MQTT: MQTTConfig{
			Connection: "",
			Interval:   5 * time.Second,
			Topic:      "/pwmeter/measurement",
			DeltaDuty:  1,
		},
	}
}

func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.LogLevel != "" {
		c.Log.FlagString = c.Flag.LogLevel
	}
	if err := c.setLogConfig(); err != nil {
		return fmt.Errorf("unable to open log file %q: %w", c.Log.FileString, err)
	}

	if c.SampleRate <= 0 || c.SampleRate > 1e6 {
		return fmt.Errorf("invalid samplerate %v, must be 1..1000000 Hz", c.SampleRate)
	}
	c.SamplePeriod = time.Second / time.Duration(c.SampleRate)

	if c.MQTT.IntervalInt > 0 {
		c.MQTT.Interval = time.Duration(c.MQTT.IntervalInt) * time.Second
	}

	return nil
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) setLogConfig() (err error) {
	switch c.Log.FlagString {
	case "trace", "full":
		c.Log.Flag = debug.Full
	case "debug":
		c.Log.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Log.Flag = debug.Standard
	}

	switch c.Log.FileString {
	case "stderr":
		c.Log.File = os.Stderr
	case "stdout":
		c.Log.File = os.Stdout
	default:
		if c.Log.File, err = os.OpenFile(c.Log.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
