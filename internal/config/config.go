package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/pleimann/camel-map/internal/mapping"
)

// DefaultControllerType is the controller type reported for the macropad
// when the config does not name one.
const DefaultControllerType = "camel-pad"

type Config struct {
	Device   DeviceConfig      `yaml:"device"`
	Timing   TimingConfig      `yaml:"timing"`
	TUI      TUIConfig         `yaml:"tui"`
	Mappings MappingsConfig    `yaml:"mappings"`
	Actions  map[string]Action `yaml:"actions,omitempty"`
	Display  DisplayConfig     `yaml:"display"`

	// path is the file the config was loaded from; relative mapping files
	// are resolved against its directory.
	path     string
	profiles mapping.Mappings
}

type DeviceConfig struct {
	VendorID       uint16   `yaml:"vendor_id"`
	ProductID      uint16   `yaml:"product_id"`
	PollIntervalMs int      `yaml:"poll_interval_ms"`
	ControllerType string   `yaml:"controller_type"`
	Buttons        []Button `yaml:"buttons,omitempty"`
}

// Button names a bit of the HID button mask. Raw controller events are
// emitted as "<name>down" and "<name>up".
type Button struct {
	Index int    `yaml:"index"`
	Name  string `yaml:"name"`
}

type TimingConfig struct {
	DoublePressWindowMs  int `yaml:"double_press_window_ms"`
	LongPressThresholdMs int `yaml:"long_press_threshold_ms"`
}

type TUIConfig struct {
	Command    string   `yaml:"command"`
	Args       []string `yaml:"args"`
	WorkingDir string   `yaml:"working_dir,omitempty"`
	KeyDelayMs int      `yaml:"key_delay_ms,omitempty"`
}

// MappingsConfig declares the input mapping profiles. Files are loaded in
// order and Profiles is merged on top of them.
type MappingsConfig struct {
	Files    []string         `yaml:"files,omitempty"`
	Active   string           `yaml:"active,omitempty"`
	Profiles mapping.Mappings `yaml:"profiles,omitempty"`

	// Vocabulary optionally restricts controller types and their raw events
	Vocabulary map[string][]string `yaml:"vocabulary,omitempty"`
}

// Action is what a semantic event does: send keys to the TUI, type text,
// or switch the active mapping profile.
type Action struct {
	Keys     []string `yaml:"keys,omitempty"`
	Text     string   `yaml:"text,omitempty"`
	Activate string   `yaml:"activate,omitempty"`
}

type DisplayConfig struct {
	Enabled          bool            `yaml:"enabled"`
	Width            int             `yaml:"width"`
	Height           int             `yaml:"height"`
	UpdateIntervalMs int             `yaml:"update_interval_ms"`
	Regions          []DisplayRegion `yaml:"regions,omitempty"`
}

type DisplayRegion struct {
	Name    string `yaml:"name"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Source  string `yaml:"source"`
	Content string `yaml:"content,omitempty"`
}

// Display region sources
const (
	SourceStatic        = "static"
	SourceActiveMapping = "active_mapping"
	SourceLastAction    = "last_action"
	SourceTUIOutput     = "tui_output"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.path = path

	if err := cfg.loadProfiles(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) loadProfiles() error {
	files, err := mapping.LoadFiles(c.MappingFiles())
	if err != nil {
		return fmt.Errorf("failed to load mappings: %w", err)
	}
	c.profiles = mapping.Combine(files, c.Mappings.Profiles)
	return nil
}

// MappingFiles returns the mapping file paths resolved against the config
// file directory
func (c *Config) MappingFiles() []string {
	dir := filepath.Dir(c.path)
	paths := make([]string, len(c.Mappings.Files))
	for i, f := range c.Mappings.Files {
		if filepath.IsAbs(f) || c.path == "" {
			paths[i] = f
		} else {
			paths[i] = filepath.Join(dir, f)
		}
	}
	return paths
}

// Path returns the file the config was loaded from
func (c *Config) Path() string {
	return c.path
}

// InputMappings returns the mapping profiles declared by the config,
// mapping files first and inline profiles on top.
func (c *Config) InputMappings() mapping.Mappings {
	return c.profiles.Clone()
}

// Vocabulary returns the closed controller vocabulary, empty if none is set
func (c *Config) Vocabulary() mapping.Vocabulary {
	return mapping.Vocabulary{Controllers: c.Mappings.Vocabulary}
}

// ButtonNames returns the raw button name of every bit of the button mask
func (c *Config) ButtonNames() map[int]string {
	names := make(map[int]string, len(c.Device.Buttons))
	for _, b := range c.Device.Buttons {
		names[b.Index] = b.Name
	}
	return names
}

func (c *Config) validate() error {
	seen := make(map[int]bool)
	for _, btn := range c.Device.Buttons {
		if btn.Index < 0 || btn.Index > 15 {
			return fmt.Errorf("button index %d out of range 0-15", btn.Index)
		}
		if seen[btn.Index] {
			return fmt.Errorf("duplicate button index: %d", btn.Index)
		}
		seen[btn.Index] = true
	}

	if err := mapping.Validate(c.profiles, c.Vocabulary()); err != nil {
		return fmt.Errorf("invalid mappings: %w", err)
	}

	if len(c.profiles) > 0 {
		if _, ok := c.profiles[c.Mappings.Active]; !ok {
			return fmt.Errorf("mappings.active: profile %q is not defined", c.Mappings.Active)
		}
	}

	for name, act := range c.Actions {
		set := 0
		if len(act.Keys) > 0 {
			set++
		}
		if act.Text != "" {
			set++
		}
		if act.Activate != "" {
			set++
			if _, ok := c.profiles[act.Activate]; !ok {
				return fmt.Errorf("action %q activates undefined profile %q", name, act.Activate)
			}
		}
		if set != 1 {
			return fmt.Errorf("action %q must set exactly one of keys, text or activate", name)
		}
	}

	for _, r := range c.Display.Regions {
		switch r.Source {
		case SourceStatic, SourceActiveMapping, SourceLastAction, SourceTUIOutput:
		default:
			return fmt.Errorf("display region %q: unknown source %q", r.Name, r.Source)
		}
	}

	return nil
}

// ValidateDevice checks the settings needed to run against the macropad
func (c *Config) ValidateDevice() error {
	if c.Device.VendorID == 0 {
		return fmt.Errorf("device.vendor_id is required")
	}
	if c.Device.ProductID == 0 {
		return fmt.Errorf("device.product_id is required")
	}
	if c.TUI.Command == "" {
		return fmt.Errorf("tui.command is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Device.PollIntervalMs == 0 {
		c.Device.PollIntervalMs = 10
	}
	if c.Device.ControllerType == "" {
		c.Device.ControllerType = DefaultControllerType
	}
	for i := range c.Device.Buttons {
		if c.Device.Buttons[i].Name == "" {
			c.Device.Buttons[i].Name = fmt.Sprintf("button%d", c.Device.Buttons[i].Index)
		}
	}
	if c.Timing.DoublePressWindowMs == 0 {
		c.Timing.DoublePressWindowMs = 300
	}
	if c.Timing.LongPressThresholdMs == 0 {
		c.Timing.LongPressThresholdMs = 500
	}
	if c.Mappings.Active == "" {
		c.Mappings.Active = mapping.DefaultProfile
	}
	if c.Display.Width == 0 {
		c.Display.Width = 128
	}
	if c.Display.Height == 0 {
		c.Display.Height = 64
	}
	if c.Display.UpdateIntervalMs == 0 {
		c.Display.UpdateIntervalMs = 100
	}
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	productRegex := regexp.MustCompile(`(?m)^(\s*product_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig writes a starter config for the given device
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	content := fmt.Sprintf(`# camel-map configuration

device:
  vendor_id: 0x%04X
  product_id: 0x%04X
  controller_type: camel-pad
  buttons:
    - index: 0
      name: select
    - index: 1
      name: back

timing:
  double_press_window_ms: 300
  long_press_threshold_ms: 500

tui:
  command: "your-tui-app"
  args: []

mappings:
  active: default
  profiles:
    default:
      camel-pad:
        selectdown: confirm
        backdown: cancel
        select.longpress: nextContext
    menu:
      camel-pad:
        selectdown: menuPick
        select.longpress: previousContext

actions:
  confirm:
    keys: ["enter"]
  cancel:
    keys: ["esc"]
  menuPick:
    keys: ["space"]
  nextContext:
    activate: menu
  previousContext:
    activate: default

display:
  enabled: false
  width: 128
  height: 64
  update_interval_ms: 100
`, vendorID, productID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
