package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir, err := ioutil.TempDir("", "pwmeter")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	file := filepath.Join(dir, "pwmeter.yaml")
	if err := ioutil.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestLoadConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Flag.ConfigFile = writeConfig(t, `
gpio: 23
resetgpio: 24
samplerate: 2000
webserver:
  url: http://0.0.0.0:7844
mqtt:
  connection: tcp://127.0.0.1:1883
  interval: 10
  topic: /meter/pwm
  deltaduty: 2.5
`)

	if err := cfg.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Gpio != 23 || cfg.ResetGpio != 24 {
		t.Errorf("pins: gpio %d resetgpio %d", cfg.Gpio, cfg.ResetGpio)
	}
	if cfg.SampleRate != 2000 {
		t.Errorf("samplerate: got %d, want 2000", cfg.SampleRate)
	}
	if cfg.SamplePeriod != 500*time.Microsecond {
		t.Errorf("sampleperiod: got %v, want 500µs", cfg.SamplePeriod)
	}
	if cfg.Webserver.URL != "http://0.0.0.0:7844" {
		t.Errorf("webserver url: got %q", cfg.Webserver.URL)
	}
	if cfg.MQTT.Interval != 10*time.Second {
		t.Errorf("mqtt interval: got %v, want 10s", cfg.MQTT.Interval)
	}
	if cfg.MQTT.DeltaDuty != 2.5 {
		t.Errorf("mqtt deltaduty: got %v, want 2.5", cfg.MQTT.DeltaDuty)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	cfg.Flag.ConfigFile = writeConfig(t, "gpio: 5\n")

	if err := cfg.LoadConfig(); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ResetGpio != -1 {
		t.Errorf("resetgpio default: got %d, want -1", cfg.ResetGpio)
	}
	if cfg.SampleRate != 1000 || cfg.SamplePeriod != time.Millisecond {
		t.Errorf("samplerate default: rate %d period %v", cfg.SampleRate, cfg.SamplePeriod)
	}
	if !cfg.Webserver.Webservices["data"] {
		t.Error("data webservice should default to enabled")
	}
	if cfg.MQTT.Interval != 5*time.Second {
		t.Errorf("mqtt interval default: got %v, want 5s", cfg.MQTT.Interval)
	}
}

func TestLoadConfigInvalidSampleRate(t *testing.T) {
	cfg := NewConfig()
	cfg.Flag.ConfigFile = writeConfig(t, "samplerate: 0\n")

	if err := cfg.LoadConfig(); err == nil {
		t.Error("expected error for samplerate 0")
	}
}
