package engine

import (
	"recondeck/config"
	"recondeck/priority"
	"recondeck/store"
	"recondeck/vehicles"
)

// LogFunc is the logging callback signature.
type LogFunc func(format string, args ...interface{})

// Engine centralizes the reconditioning business logic and wires the
// vehicle manager to the event bus.
type Engine struct {
	cfg        *config.Config
	configPath string
	db         *store.DB
	logFn      LogFunc
	debugFn    LogFunc

	vehicleMgr *vehicles.Manager

	Events   *EventBus
	stopChan chan struct{}
}

// Config holds the parameters needed to create an Engine.
type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	DB         *store.DB
	LogFunc    LogFunc
	Debug      bool
}

// New creates a new Engine. Call Start() to load the working set.
func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = func(string, ...interface{}) {}
	}
	debugFn := LogFunc(func(string, ...interface{}) {})
	if c.Debug {
		debugFn = logFn
	}
	return &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		db:         c.DB,
		logFn:      logFn,
		debugFn:    debugFn,
		Events:     NewEventBus(),
		stopChan:   make(chan struct{}),
	}
}

// Start creates the vehicle manager and loads the working set.
func (e *Engine) Start() error {
	emitter := &vehicleEmitter{bus: e.Events}
	e.vehicleMgr = vehicles.NewManager(e.db, emitter, priority.Scorer{})

	if err := e.vehicleMgr.Load(); err != nil {
		return err
	}

	e.logFn("Engine started: dealership=%s vehicles=%d", e.cfg.Dealership, e.vehicleMgr.Len())
	return nil
}

// Stop shuts the engine down.
func (e *Engine) Stop() {
	select {
	case <-e.stopChan:
	default:
		close(e.stopChan)
	}
	e.logFn("Engine stopped")
}

// VehicleManager returns the vehicle manager.
func (e *Engine) VehicleManager() *vehicles.Manager { return e.vehicleMgr }

// DB returns the store.
func (e *Engine) DB() *store.DB { return e.db }

// AppConfig returns the application configuration.
func (e *Engine) AppConfig() *config.Config { return e.cfg }

// Debugf logs only when debug logging is enabled.
func (e *Engine) Debugf(format string, args ...interface{}) {
	e.debugFn(format, args...)
}
