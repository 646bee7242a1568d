package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/pleimann/camel-map/internal/action"
	"github.com/pleimann/camel-map/internal/config"
	"github.com/pleimann/camel-map/internal/engine"
	"github.com/pleimann/camel-map/internal/hid"
	"github.com/pleimann/camel-map/internal/host"
	"github.com/pleimann/camel-map/internal/mapping"
	"github.com/pleimann/camel-map/internal/ui"
)

const Version = "0.2.0"

func main() {
	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "list-devices":
			runListDevices()
			return
		case "set-device", "select-device":
			runSetDevice(os.Args[2:])
			return
		case "list-mappings":
			runListMappings(os.Args[2:])
			return
		case "monitor":
			runMonitor(os.Args[2:])
			return
		case "help", "-h", "--help":
			printUsage()
			os.Exit(0)
		}
	}

	// Main command flags
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	watcher, err := config.NewWatcher(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := watcher.Get()
	if err := cfg.ValidateDevice(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if *verbose {
		log.Printf("Loaded configuration from %s", *configPath)
		log.Printf("Device: VendorID=0x%04X, ProductID=0x%04X",
			cfg.Device.VendorID, cfg.Device.ProductID)
		log.Printf("TUI command: %s %v", cfg.TUI.Command, cfg.TUI.Args)
		log.Printf("Mapping profiles: %s (active %s)",
			strings.Join(cfg.InputMappings().Names(), ", "), cfg.Mappings.Active)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	app, err := newApp(watcher, *verbose)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	go func() {
		<-sigChan
		if *verbose {
			log.Println("Received shutdown signal")
		}
		cancel()
	}()

	if err := app.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Application error: %v", err)
	}

	if *verbose {
		log.Println("Shutdown complete")
	}
}

func printUsage() {
	ui.PrintUsage(Version)
}

// runListDevices handles the list-devices subcommand
func runListDevices() {
	devices, err := hid.ListDevices()
	if err != nil {
		ui.PrintFatalError("Failed to list devices", err.Error())
		os.Exit(1)
	}
	ui.PrintDeviceList(devices)
}

// runSetDevice handles the set-device subcommand
func runSetDevice(args []string) {
	fs := flag.NewFlagSet("set-device", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	fs.Usage = ui.PrintSetDeviceUsage

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	remaining := fs.Args()

	var vendorID, productID uint16

	switch len(remaining) {
	case 0:
		device, err := selectDevice()
		if err != nil {
			ui.PrintFatalError("Device selection failed", err.Error())
			os.Exit(1)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			os.Exit(0)
		}
		vendorID = device.VendorID
		productID = device.ProductID
	case 1:
		ui.PrintFatalError("Invalid arguments", "Both vendor_id and product_id must be provided, or neither")
		os.Exit(1)
	default:
		vid, err := parseID(remaining[0])
		if err != nil {
			ui.PrintFatalError("Invalid vendor_id", fmt.Sprintf("%q: %v", remaining[0], err))
			os.Exit(1)
		}
		pid, err := parseID(remaining[1])
		if err != nil {
			ui.PrintFatalError("Invalid product_id", fmt.Sprintf("%q: %v", remaining[1], err))
			os.Exit(1)
		}
		vendorID = vid
		productID = pid
	}

	// Update or create config file
	if config.Exists(*configPath) {
		if err := config.UpdateDeviceIDs(*configPath, vendorID, productID); err != nil {
			ui.PrintFatalError("Failed to update config", err.Error())
			os.Exit(1)
		}
		ui.PrintDeviceSaved(*configPath, vendorID, productID, false)
		return
	}
	if err := config.CreateDefaultConfig(*configPath, vendorID, productID); err != nil {
		ui.PrintFatalError("Failed to create config", err.Error())
		os.Exit(1)
	}
	ui.PrintDeviceSaved(*configPath, vendorID, productID, true)
}

// runListMappings handles the list-mappings subcommand
func runListMappings(args []string) {
	fs := flag.NewFlagSet("list-mappings", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	profile := fs.String("profile", "", "only show this profile")
	fs.Usage = ui.PrintListMappingsUsage

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	table, err := action.NewTable(cfg.Actions)
	if err != nil {
		ui.PrintFatalError("Invalid actions", err.Error())
		os.Exit(1)
	}
	describe := func(semantic string) string {
		if a, ok := table.Lookup(semantic); ok {
			return a.Describe()
		}
		return ""
	}

	if err := ui.PrintMappings(cfg.InputMappings(), cfg.Mappings.Active, *profile, describe); err != nil {
		ui.PrintFatalError("Failed to list mappings", err.Error())
		os.Exit(1)
	}
}

// runMonitor handles the monitor subcommand
func runMonitor(args []string) {
	fs := flag.NewFlagSet("monitor", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to configuration file")
	profile := fs.String("profile", "", "profile to start in")
	fs.Usage = ui.PrintMonitorUsage

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		ui.PrintFatalError("Cannot start monitor", "stdin is not a terminal")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	m := cfg.InputMappings()
	engine.RegisterInputMappings(m, true)

	scene := host.NewScene()
	eng, err := engine.New(scene)
	if err != nil {
		ui.PrintFatalError("Failed to start mapping engine", err.Error())
		os.Exit(1)
	}
	defer eng.Close()

	start := cfg.Mappings.Active
	if *profile != "" {
		start = *profile
	}
	if !eng.SetActiveMapping(start) {
		ui.PrintFatalError("Unknown profile", fmt.Sprintf("%q is not defined (have %s)", start, strings.Join(m.Names(), ", ")))
		os.Exit(1)
	}

	model := ui.NewMonitorModel(eng, m.Names())
	program := tea.NewProgram(model, tea.WithAltScreen())
	for _, name := range keyboardSemantics(m) {
		scene.AddEventListener(name, func(ev host.Event) {
			program.Send(model.Tag(ev.Name))
		})
	}

	if _, err := program.Run(); err != nil {
		ui.PrintFatalError("Monitor failed", err.Error())
		os.Exit(1)
	}
}

// keyboardSemantics returns every semantic event a keyboard mapping can emit
func keyboardSemantics(m mapping.Mappings) []string {
	seen := make(map[string]bool)
	var names []string
	for _, profile := range m.Names() {
		for _, semantic := range m[profile][mapping.Keyboard] {
			if !seen[semantic] {
				seen[semantic] = true
				names = append(names, semantic)
			}
		}
	}
	return names
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	var val uint64
	var err error

	if strings.HasPrefix(strings.ToLower(s), "0x") {
		val, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		val, err = strconv.ParseUint(s, 10, 16)
	}

	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

// selectDevice displays an interactive device selection menu using huh
func selectDevice() (*hid.DeviceInfo, error) {
	devices, err := hid.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no HID devices found")
	}

	unique := uniqueDevices(devices)
	if len(unique) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	return ui.SelectDevice(unique)
}

// uniqueDevices drops repeated vendor/product pairs and devices without IDs
func uniqueDevices(devices []hid.DeviceInfo) []hid.DeviceInfo {
	seen := make(map[uint32]bool)
	var unique []hid.DeviceInfo

	for _, d := range devices {
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}
		key := uint32(d.VendorID)<<16 | uint32(d.ProductID)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, d)
	}
	return unique
}
