package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pleimann/camel-map/internal/action"
	"github.com/pleimann/camel-map/internal/activator"
	"github.com/pleimann/camel-map/internal/config"
	"github.com/pleimann/camel-map/internal/display"
	"github.com/pleimann/camel-map/internal/engine"
	"github.com/pleimann/camel-map/internal/hid"
	"github.com/pleimann/camel-map/internal/host"
	"github.com/pleimann/camel-map/internal/pty"
)

type App struct {
	watcher    *config.Watcher
	verbose    bool
	hidDevice  *hid.Device
	scene      *host.Scene
	pad        *host.Entity
	activators *activator.Registry
	engine     *engine.Engine
	dispatcher *action.Dispatcher
	ptyManager *pty.Manager
	panel      *display.Panel

	mu         sync.Mutex
	config     *config.Config
	translator *hid.Translator
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func newApp(watcher *config.Watcher, verbose bool) (*App, error) {
	cfg := watcher.Get()
	app := &App{
		watcher:    watcher,
		verbose:    verbose,
		config:     cfg,
		scene:      host.NewScene(),
		activators: activator.NewRegistry(),
	}

	// Mapping engine
	activator.RegisterBuiltins(app.activators,
		millis(cfg.Timing.LongPressThresholdMs), millis(cfg.Timing.DoublePressWindowMs))
	engine.RegisterInputMappings(cfg.InputMappings(), true)

	eng, err := engine.New(app.scene, engine.WithActivators(app.activators), engine.WithVerbose(verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to create mapping engine: %w", err)
	}
	app.engine = eng
	eng.SetActiveMapping(cfg.Mappings.Active)

	app.pad = app.scene.NewEntity(cfg.Device.ControllerType)
	app.translator = hid.NewTranslator(cfg.ButtonNames(), app.pad)

	// Initialize HID device
	hidDevice, err := hid.NewDevice(cfg.Device.VendorID, cfg.Device.ProductID)
	if err != nil {
		eng.Close()
		return nil, fmt.Errorf("failed to open HID device: %w", err)
	}
	app.hidDevice = hidDevice

	// Initialize PTY manager
	ptyManager, err := pty.NewManager(cfg.TUI.Command, cfg.TUI.Args, cfg.TUI.WorkingDir)
	if err != nil {
		hidDevice.Close()
		eng.Close()
		return nil, fmt.Errorf("failed to create PTY manager: %w", err)
	}
	app.ptyManager = ptyManager

	// Semantic events run actions in the TUI
	table, err := action.NewTable(cfg.Actions)
	if err != nil {
		hidDevice.Close()
		eng.Close()
		return nil, fmt.Errorf("invalid actions: %w", err)
	}
	executor := action.NewExecutor(pty.NewWriter(ptyManager, millis(cfg.TUI.KeyDelayMs)), eng)
	app.dispatcher = action.NewDispatcher(app.scene, executor)
	app.dispatcher.OnAction(app.onAction)
	app.dispatcher.Bind(table)

	if cfg.Display.Enabled {
		app.panel = display.NewPanel(cfg.Display, hidDevice)
		app.panel.SetActiveMapping(eng.ActiveMapping())
	}

	watcher.OnReload(app.reload)

	return app, nil
}

func (a *App) onAction(act action.Action, err error) {
	if err != nil {
		log.Printf("Failed to execute action %s: %v", act.Name, err)
		return
	}
	if a.verbose {
		log.Printf("Action %s: %s", act.Name, act.Describe())
	}
	if a.panel != nil {
		a.panel.SetLastAction(act.Name)
		a.panel.SetActiveMapping(a.engine.ActiveMapping())
	}
}

// reload applies a changed config file. Device and TUI settings need a
// restart; mappings, actions, button names and timings apply immediately.
func (a *App) reload(cfg *config.Config) {
	a.mu.Lock()
	prev := a.config
	a.config = cfg
	a.translator.Reset()
	a.translator = hid.NewTranslator(cfg.ButtonNames(), a.pad)
	a.mu.Unlock()

	if cfg.Device.VendorID != prev.Device.VendorID || cfg.Device.ProductID != prev.Device.ProductID ||
		cfg.TUI.Command != prev.TUI.Command {
		log.Println("Warning: device and TUI changes take effect after a restart")
	}

	// Activators are read on rebuild, so they go first
	activator.RegisterBuiltins(a.activators,
		millis(cfg.Timing.LongPressThresholdMs), millis(cfg.Timing.DoublePressWindowMs))
	engine.RegisterInputMappings(cfg.InputMappings(), true)

	if !a.engine.Store().Has(a.engine.ActiveMapping()) || cfg.Mappings.Active != prev.Mappings.Active {
		a.engine.SetActiveMapping(cfg.Mappings.Active)
	}

	table, err := action.NewTable(cfg.Actions)
	if err != nil {
		log.Printf("Keeping previous actions: %v", err)
	} else {
		a.dispatcher.Bind(table)
	}

	if a.panel != nil {
		a.panel.SetActiveMapping(a.engine.ActiveMapping())
	}
	log.Printf("Configuration reloaded (%d profile(s), active %s)",
		len(cfg.InputMappings()), a.engine.ActiveMapping())
}

func (a *App) feed(ev hid.Event) {
	a.mu.Lock()
	t := a.translator
	a.mu.Unlock()

	if a.verbose {
		log.Printf("HID event: %s buttons=%v", ev.Type, ev.PressedButtons())
	}
	t.Feed(ev)
}

func (a *App) current() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.config
}

func (a *App) releaseAll() {
	a.mu.Lock()
	t := a.translator
	a.mu.Unlock()
	t.Reset()
}

func (a *App) Run(ctx context.Context) error {
	// Start PTY
	if err := a.ptyManager.Start(ctx); err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	if a.panel != nil {
		a.panel.Start(ctx, a.ptyManager)
	}

	a.watcher.Start()

	// The pad's raw events bind once the controller is announced
	a.scene.Emit(host.EventControllerConnected, host.ControllerDetail{
		Name:   a.current().Device.ControllerType,
		Target: a.pad,
	})

	for {
		err := a.readEvents(ctx)
		if ctx.Err() != nil {
			a.shutdown()
			return nil
		}
		if errors.Is(err, errTUIExited) {
			a.shutdown()
			return err
		}

		// Buttons held at disconnect never report a release
		a.releaseAll()
		log.Printf("HID device disconnected (%v), waiting for it to return", err)
		if err := a.hidDevice.WaitForDevice(ctx, millis(a.current().Device.PollIntervalMs)); err != nil {
			a.shutdown()
			return nil
		}
		log.Println("HID device reconnected")
	}
}

var errTUIExited = errors.New("TUI exited")

// readEvents feeds button reports until the device fails, the TUI exits or
// ctx is done
func (a *App) readEvents(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan hid.Event, 64)
	readErr := make(chan error, 1)
	go func() {
		readErr <- a.hidDevice.ReadEvents(ctx, events)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.ptyManager.Done():
			return errTUIExited
		case err := <-readErr:
			return err
		case event := <-events:
			a.feed(event)
		}
	}
}

func (a *App) shutdown() {
	if a.verbose {
		log.Println("Shutting down...")
	}
	a.watcher.Stop()
	a.dispatcher.Close()
	a.engine.Close()
	if a.panel != nil {
		a.panel.Stop()
	}
	a.ptyManager.Stop()
	a.hidDevice.Close()
}
