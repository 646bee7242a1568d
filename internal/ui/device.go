package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pleimann/camel-map/internal/hid"
)

// deviceSelectModel hosts the huh form so esc and q cancel instead of
// being swallowed by the select field
type deviceSelectModel struct {
	form    *huh.Form
	aborted bool
}

func (m deviceSelectModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m deviceSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}
	return m, cmd
}

func (m deviceSelectModel) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

// SelectDevice lets the user pick a device. It returns nil when the user
// cancels.
func SelectDevice(devices []hid.DeviceInfo) (*hid.DeviceInfo, error) {
	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices to select from")
	}

	options := make([]huh.Option[int], len(devices))
	for i, d := range devices {
		label := DeviceIDStyle.Render(d.ID()) + "  " + d.Label()
		options[i] = huh.NewOption(label, i)
	}

	var selected int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select HID Device").
				Description("Choose the macropad to map (esc to cancel)").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(theme()).WithShowHelp(false)

	final, err := tea.NewProgram(deviceSelectModel{form: form}).Run()
	if err != nil {
		return nil, err
	}
	if final.(deviceSelectModel).aborted {
		return nil, nil
	}
	return &devices[selected], nil
}

// PrintDeviceList prints the HID devices found on the system
func PrintDeviceList(devices []hid.DeviceInfo) {
	if len(devices) == 0 {
		fmt.Println(Warning("No HID devices found"))
		return
	}

	fmt.Println()
	fmt.Println(Title("HID Devices"))
	fmt.Println(Muted(fmt.Sprintf("Found %d device(s)", len(devices))))
	fmt.Println()

	for _, d := range devices {
		line := DeviceIDStyle.Render("  "+d.ID()) + "  " + DeviceNameStyle.Render(d.Label())
		if d.UsagePage != 0 {
			line += " " + DeviceManufacturerStyle.Render(fmt.Sprintf("usage 0x%04X/0x%04X", d.UsagePage, d.Usage))
		}
		fmt.Println(line)
	}
	fmt.Println()
}

// PrintDeviceSaved confirms a device change in the config file
func PrintDeviceSaved(configPath string, vendorID, productID uint16, created bool) {
	msg := "Device configuration updated"
	if created {
		msg = "Device configuration created"
	}
	fmt.Println()
	fmt.Println(Success(msg))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("Config:"), configPath)
	fmt.Printf("  %s %s\n", Muted("Device:"), DeviceIDStyle.Render(fmt.Sprintf("0x%04X:0x%04X", vendorID, productID)))
	fmt.Println()
}

func theme() *huh.Theme {
	t := huh.ThemeBase()
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(ColorText)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)
	return t
}
