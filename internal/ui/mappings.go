package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/pleimann/camel-map/internal/mapping"
)

// Describe returns what a semantic event does, or "" if nothing handles it
type Describe func(semantic string) string

// MappingRows lists the entries of a profile as device, raw event,
// semantic event and action rows, sorted by device then raw event
func MappingRows(profile mapping.Profile, describe Describe) [][]string {
	var rows [][]string
	for _, device := range profile.Devices() {
		events := profile[device]
		for _, raw := range events.Keys() {
			semantic := events[raw]
			action := ""
			if describe != nil {
				action = describe(semantic)
			}
			rows = append(rows, []string{device, raw, semantic, action})
		}
	}
	return rows
}

// RenderProfile renders one profile as a table. Controller events missing
// from the profile resolve through the default profile, which is noted
// under the table.
func RenderProfile(name string, profile mapping.Profile, active bool, describe Describe) string {
	title := ProfileStyle.Render(name)
	if active {
		title = ActiveProfileStyle.Render(name + " (active)")
	}

	rows := MappingRows(profile, describe)
	if len(rows) == 0 {
		return title + "\n" + Muted("  no mappings") + "\n"
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(MutedStyle).
		Headers("DEVICE", "RAW EVENT", "SEMANTIC EVENT", "ACTION").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case col == 1:
				return TableCellStyle.Inherit(RawEventStyle)
			case col == 2:
				return TableCellStyle.Inherit(SemanticStyle)
			}
			return TableCellStyle
		})

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(t.String())
	b.WriteString("\n")
	if name != mapping.DefaultProfile {
		b.WriteString(Muted("  controller events not listed fall back to " + mapping.DefaultProfile))
		b.WriteString("\n")
	}
	return b.String()
}

// PrintMappings prints every profile, or only the named one when only is
// not empty
func PrintMappings(m mapping.Mappings, active, only string, describe Describe) error {
	if len(m) == 0 {
		fmt.Println(Warning("No input mappings defined"))
		return nil
	}

	names := m.Names()
	if only != "" {
		if _, ok := m[only]; !ok {
			return fmt.Errorf("profile %q is not defined (have %s)", only, strings.Join(names, ", "))
		}
		names = []string{only}
	}

	fmt.Println()
	fmt.Println(Title("Input Mappings"))
	fmt.Println(Muted(fmt.Sprintf("%d profile(s)", len(m))))
	fmt.Println()
	for _, name := range names {
		fmt.Println(RenderProfile(name, m[name], name == active, describe))
	}
	return nil
}
