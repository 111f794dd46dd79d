package app

import (
	"net/url"
	"sync"

	"pwmeter/pkg/app/config"
	"pwmeter/pkg/meter"
	"pwmeter/pkg/mqtt"
	"pwmeter/pkg/raspberry"
	"pwmeter/pkg/sampler"

	"github.com/gofiber/fiber/v2"
	"github.com/womat/debug"
)

// App is the main application struct.
// App is where the application is wired up.
type App struct {
	// web is the fiber web framework instance
	web *fiber.App

	// config is the application configuration
	config *config.Config

	// urlParsed contains the parsed Config.Url parameter
	// and makes it easier to get params out of e.g.
	// url: https://0.0.0.0:7844/?minTls=1.2&bodyLimit=50MB
	urlParsed *url.URL

	// mqtt is the handler to the mqtt broker
	mqtt *mqtt.Handler

	// gpio is the handler to the board gpio resources
	gpio raspberry.GPIO

	// signal is the measured input pin
	signal raspberry.Pin

	// reset is the watched reset net, nil if no reset pin is configured
	reset raspberry.ResetLine

	// meter is the pulse width meter fed by the sampler
	meter *meter.Meter

	// sampler drives the meter from the sample clock
	sampler *sampler.Sampler

	// measurement is the last read measurement
	measurement struct {
		sync.Mutex
		data Measurement
	}

	// mqttData is the last measurement published to the mqtt broker
	mqttData struct {
		sync.Mutex
		data Measurement
	}

	// restart signals application restart
	restart chan struct{}
	// shutdown signals application shutdown
	shutdown chan struct{}
}

// New checks the Web server URL and initialize the main app structure.
func New(config *config.Config) (*App, error) {
	u, err := url.Parse(config.Webserver.URL)
	if err != nil {
		debug.ErrorLog.Printf("Error parsing url %q: %s", config.Webserver.URL, err.Error())
		return &App{}, err
	}

	return &App{
		config:    config,
		urlParsed: u,

		meter: meter.New(),
		web:   fiber.New(),
		mqtt:  mqtt.New(),

		restart:  make(chan struct{}),
		shutdown: make(chan struct{}),
	}, err
}

// Run starts the application.
func (app *App) Run() error {
	if err := app.init(); err != nil {
		return err
	}

	go app.mqtt.Service()
	go app.runWebServer()
	go app.service()

	return nil
}

// init wires the gpio pins, the sampler and the mqtt connection.
func (app *App) init() (err error) {
	if app.gpio, err = raspberry.Open(); err != nil {
		debug.ErrorLog.Printf("can't open gpio: %v", err)
		return err
	}

	if app.signal, err = app.gpio.NewPin(app.config.Gpio); err != nil {
		debug.ErrorLog.Printf("can't open pin: %v", err)
		return err
	}
	app.signal.Input()
	app.signal.PullDown()

	if app.config.ResetGpio >= 0 {
		if app.reset, err = app.gpio.WatchReset(app.config.ResetGpio, app.config.ResetTerminator); err != nil {
			debug.ErrorLog.Printf("can't watch reset line: %v", err)
			return err
		}
	}

	app.sampler = sampler.New(app.meter, app.signal, app.reset, app.config.SamplePeriod)

	if err = app.mqtt.Connect(app.config.MQTT.Connection); err != nil {
		debug.ErrorLog.Printf("can't open mqtt broker %v", err)
		return err
	}

	// initDefaultRoutes should be always called last because it may access
	// things which must be initialized before
	app.initDefaultRoutes()

	return nil
}

// Restart returns the read only restart channel.
// Restart is used to be able to react on application restart. (see cmd/main.go)
func (app *App) Restart() <-chan struct{} {
	return app.restart
}

// Shutdown returns the read only shutdown channel.
// Shutdown is used to be able to react on application shutdown. (see cmd/main.go)
func (app *App) Shutdown() <-chan struct{} {
	return app.shutdown
}

func (app *App) Close() error {
	if app.mqtt != nil {
		_ = app.mqtt.Disconnect()
	}

	if app.sampler != nil {
		_ = app.sampler.Close()
	}
	if app.reset != nil {
		_ = app.reset.Close()
	}
	if app.gpio != nil {
		_ = app.gpio.Close()
	}
	return nil
}
