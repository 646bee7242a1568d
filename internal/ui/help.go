package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/camel-map/internal/utils"
)

type example struct {
	args string
	desc string
}

type command struct {
	name string
	desc string
	more bool // has its own --help
}

var commands = []command{
	{"list-devices", "List available HID devices", false},
	{"set-device", "Set the HID device in the config file", true},
	{"list-mappings", "Show the mapping profiles and the actions they trigger", true},
	{"monitor", "Resolve keyboard input interactively, without the macropad", true},
}

func banner(version string, versionColor lipgloss.Color) string {
	name := TitleStyle.Render(utils.ExecutableName())
	tag := lipgloss.NewStyle().Foreground(versionColor).Render("v" + version)
	return name + " " + tag
}

// PrintUsage displays the help text
func PrintUsage(version string) {
	exe := utils.ExecutableName()

	fmt.Println(banner(version, ColorMuted))
	fmt.Println(Muted("Maps macropad and keyboard input to TUI actions through switchable profiles"))
	fmt.Println()

	printSection("Usage", []string{
		exe + " [flags]                Run the middleware",
		exe + " <command> [flags]      Run a command",
	})

	printSection("Flags", []string{
		"-config string    Path to configuration file (default \"config.yaml\")",
		"-verbose          Enable verbose logging",
		"-version          Print version and exit",
	})

	fmt.Println(Bold("Commands"))
	for _, c := range commands {
		fmt.Printf("  %s\n      %s\n", CommandStyle.Render(c.name), c.desc)
		if c.more {
			fmt.Printf("      Run %s for more information\n", Code(exe+" "+c.name+" --help"))
		}
		fmt.Println()
	}

	printExamples([]example{
		{"", "Run with default config.yaml"},
		{"-config my.yaml", "Run with custom config file"},
		{"list-devices", "List connected HID devices"},
		{"set-device 0x1234 0x5678", "Set device by vendor/product ID"},
		{"list-mappings -profile menu", "Show one profile"},
		{"monitor -profile menu", "Try keyboard mappings starting in a profile"},
	})
}

func printSection(title string, items []string) {
	fmt.Println(Bold(title))
	for _, item := range items {
		fmt.Printf("  %s\n", item)
	}
	fmt.Println()
}

func printExamples(examples []example) {
	exe := utils.ExecutableName()
	fmt.Println(Bold("Examples"))

	cmds := make([]string, len(examples))
	width := 0
	for i, ex := range examples {
		cmds[i] = strings.TrimSpace(exe + " " + ex.args)
		width = max(width, len(cmds[i]))
	}

	style := lipgloss.NewStyle().Foreground(ColorSecondary)
	for i, ex := range examples {
		padding := strings.Repeat(" ", width-len(cmds[i])+2)
		fmt.Printf("  %s%s%s\n", style.Render(cmds[i]), padding, Muted(ex.desc))
	}
	fmt.Println()
}

func printOptions(opts [][2]string) {
	fmt.Println(Bold("Options"))
	for _, o := range opts {
		fmt.Printf("  %s    %s\n", SubtitleStyle.Render(o[0]), o[1])
	}
	fmt.Println()
}

const configOption = "Path to configuration file (default \"config.yaml\")"

// PrintSetDeviceUsage displays the help text for set-device
func PrintSetDeviceUsage() {
	fmt.Println(Bold("Usage:"), utils.ExecutableName()+" set-device [options] [vendor_id product_id]")
	fmt.Println()
	fmt.Println("Set the HID device in the configuration file.")
	fmt.Println()
	fmt.Println(Muted("If vendor_id and product_id are provided, updates the config directly."))
	fmt.Println(Muted("Otherwise, displays a list of connected devices to choose from."))
	fmt.Println()

	fmt.Println(Bold("Arguments"))
	fmt.Printf("  %s    Device vendor ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("vendor_id"))
	fmt.Printf("  %s   Device product ID (hex with 0x prefix or decimal)\n", SubtitleStyle.Render("product_id"))
	fmt.Println()

	printOptions([][2]string{{"-config string", configOption}})

	printExamples([]example{
		{"set-device", "Interactive selection"},
		{"set-device 0x1234 0x5678", "Direct specification"},
		{"set-device -config my.yaml", "Use different config"},
	})
}

// PrintListMappingsUsage displays the help text for list-mappings
func PrintListMappingsUsage() {
	fmt.Println(Bold("Usage:"), utils.ExecutableName()+" list-mappings [options]")
	fmt.Println()
	fmt.Println("Show every mapping profile: raw event, semantic event and the action it runs.")
	fmt.Println()

	printOptions([][2]string{
		{"-config string ", configOption},
		{"-profile string", "Only show this profile"},
	})

	printExamples([]example{
		{"list-mappings", "All profiles"},
		{"list-mappings -profile menu", "One profile"},
	})
}

// PrintMonitorUsage displays the help text for monitor
func PrintMonitorUsage() {
	fmt.Println(Bold("Usage:"), utils.ExecutableName()+" monitor [options]")
	fmt.Println()
	fmt.Println("Feed keys typed in the terminal through the keyboard mappings and show the")
	fmt.Println("semantic events they resolve to. Nothing is sent to the TUI.")
	fmt.Println()
	fmt.Println(Muted("ctrl+n switches to the next profile, esc or ctrl+c quits."))
	fmt.Println()

	printOptions([][2]string{
		{"-config string ", configOption},
		{"-profile string", "Profile to start in (default from config)"},
	})
}

// PrintVersion displays the version
func PrintVersion(version string) {
	fmt.Println(banner(version, ColorSuccess))
}

// PrintError displays an error message
func PrintError(message string) {
	fmt.Println(Error(message))
}

// PrintFatalError displays an error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}
