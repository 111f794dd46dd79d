package app

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pwmeter/pkg/app/config"
	"pwmeter/pkg/meter"
	"pwmeter/pkg/mqtt"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

func TestMain(m *testing.M) {
	debug.SetDebug(os.Stderr, 0)
	os.Exit(m.Run())
}

// newTestApp wires an app without gpio hardware and without a running sampler.
func newTestApp() *App {
	app := &App{
		config: config.NewConfig(),
		meter:  meter.New(),
		web:    fiber.New(),
		mqtt:   mqtt.New(),
	}
	app.initDefaultRoutes()
	return app
}

// cycle feeds one high run and one low run through the meter and completes
// the low run with a single high tick.
func cycle(m *meter.Meter, high, low int) {
	for i := 0; i < high; i++ {
		m.Tick(true, false)
	}
	for i := 0; i < low; i++ {
		m.Tick(false, false)
	}
	m.Tick(true, false)
}

func TestMeasure(t *testing.T) {
	app := newTestApp()
	// defaults: 1000 Hz, tick = 1ms
	cycle(app.meter, 5, 15)

	m := app.measure()

	if m.HighTicks != 5 || m.LowTicks != 15 {
		t.Fatalf("ticks: high %d low %d, want 5/15", m.HighTicks, m.LowTicks)
	}
	if m.HighTime != 5*time.Millisecond || m.LowTime != 15*time.Millisecond {
		t.Errorf("times: high %v low %v", m.HighTime, m.LowTime)
	}
	if m.Period != 20*time.Millisecond {
		t.Errorf("period: got %v, want 20ms", m.Period)
	}
	if m.Frequency != 50 {
		t.Errorf("frequency: got %v, want 50", m.Frequency)
	}
	if m.DutyCycle != 25 {
		t.Errorf("duty cycle: got %v, want 25", m.DutyCycle)
	}
}

func TestValidateMeasurement(t *testing.T) {
	app := newTestApp()
	app.config.MQTT.Interval = time.Hour
	app.config.MQTT.DeltaDuty = 1
	app.config.MQTT.Topic = "/test/pwm"

	// nothing published yet: the first measurement always goes out
	m := Measurement{TimeStamp: time.Now(), DutyCycle: 25}
	app.validateMeasurement(m)

	select {
	case msg := <-app.mqtt.C:
		if msg.Topic != "/test/pwm" {
			t.Errorf("topic: got %q", msg.Topic)
		}
		var got Measurement
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if got.DutyCycle != 25 {
			t.Errorf("payload duty cycle: got %v, want 25", got.DutyCycle)
		}
	case <-time.After(time.Second):
		t.Fatal("first measurement was not published")
	}

	// small duty change within the interval is not published
	published := app.mqttData.data
	m2 := Measurement{TimeStamp: m.TimeStamp.Add(time.Second), DutyCycle: 25.5}
	app.validateMeasurement(m2)
	if app.mqttData.data != published {
		t.Error("measurement within delta was published")
	}

	// duty change beyond the delta is published
	m3 := Measurement{TimeStamp: m.TimeStamp.Add(2 * time.Second), DutyCycle: 30}
	app.validateMeasurement(m3)
	select {
	case <-app.mqtt.C:
	case <-time.After(time.Second):
		t.Fatal("measurement beyond delta was not published")
	}
	if app.mqttData.data != m3 {
		t.Error("published measurement was not remembered")
	}
}

func TestHandleData(t *testing.T) {
	app := newTestApp()
	cycle(app.meter, 10, 10)

	app.measurement.Lock()
	app.measurement.data = app.measure()
	app.measurement.Unlock()

	resp, err := app.web.Test(httptest.NewRequest("GET", "/data", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status: got %d", resp.StatusCode)
	}

	var m Measurement
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.HighTicks != 10 || m.LowTicks != 10 || m.DutyCycle != 50 {
		t.Errorf("data: %+v", m)
	}
}
