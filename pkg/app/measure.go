package app

import (
	"encoding/json"
	"math"
	"time"

	"pwmeter/pkg/mqtt"

	"github.com/womat/debug"
)

// pollInterval is the cadence the consumer reads the latched duration registers.
const pollInterval = 500 * time.Millisecond

// Measurement is the externally visible view of the two latched duration
// registers, converted with the configured sample clock period.
type Measurement struct {
	// TimeStamp is the time the registers were read.
	TimeStamp time.Time
	// HighTicks is the latched high run length in sample clock ticks.
	HighTicks uint32
	// LowTicks is the latched low run length in sample clock ticks.
	LowTicks uint32
	// HighTime is the duration the signal was high during the last cycle.
	HighTime time.Duration
	// LowTime is the duration the signal was low during the last cycle.
	LowTime time.Duration
	// Period is the duration of the last full cycle.
	Period time.Duration
	// Frequency is the signal frequency in Hz.
	Frequency float64
	// DutyCycle is the high time in percent of the period.
	DutyCycle float64
}

// measure reads the latched registers once and derives the duration values.
// Reading never changes meter state, so polling at any cadence is safe.
func (app *App) measure() Measurement {
	snap := app.meter.Snapshot()
	tick := app.config.SamplePeriod

	return Measurement{
		TimeStamp: time.Now(),
		HighTicks: snap.HighTicks,
		LowTicks:  snap.LowTicks,
		HighTime:  snap.HighTime(tick),
		LowTime:   snap.LowTime(tick),
		Period:    snap.Period(tick),
		Frequency: snap.Frequency(tick),
		DutyCycle: snap.DutyCycle(),
	}
}

// service reads the meter at its own cadence, saves the measurement to the
// app main structure and publishes it to the mqtt broker.
func (app *App) service() {
	for range time.Tick(pollInterval) {
		m := app.measure()

		debug.TraceLog.Printf("measurement: %+v", m)

		app.measurement.Lock()
		app.measurement.data = m
		app.measurement.Unlock()

		app.validateMeasurement(m)
	}
}

// validateMeasurement checks the measurement against the last published one
// and publishes it if the mqtt interval elapsed or the duty cycle moved more
// than the configured delta.
func (app *App) validateMeasurement(m Measurement) {
	app.mqttData.Lock()
	defer app.mqttData.Unlock()

	deltaT := m.TimeStamp.Sub(app.mqttData.data.TimeStamp)
	deltaDuty := math.Abs(m.DutyCycle - app.mqttData.data.DutyCycle)

	if deltaT >= app.config.MQTT.Interval || deltaDuty >= app.config.MQTT.DeltaDuty {
		app.sendMQTT(app.config.MQTT.Topic, m)
		app.mqttData.data = m
	}
}

// sendMQTT send the measurement to the mqtt broker.
func (app *App) sendMQTT(topic string, m Measurement) {
	go func(t string, r Measurement) {
		debug.TraceLog.Printf("prepare mqtt message %v %v", t, r)

		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			debug.ErrorLog.Printf("sendMQTT marshal: %v", err)
			return
		}

		app.mqtt.C <- mqtt.Message{
			Qos:      0,
			Retained: true,
			Topic:    t,
			Payload:  b,
		}
	}(topic, m)
}
