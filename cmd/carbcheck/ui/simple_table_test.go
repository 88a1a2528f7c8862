package ui

import (
	"strings"
	"testing"
)

func TestSimpleTable(t *testing.T) {
	table := NewSimpleTable("Lookup History", []string{"When", "VIN"})
	table.AddRow("8/28/2026", "1HGCM82633A004352")

	styles := DefaultStyles()
	view := table.View(styles)

	if !strings.Contains(view, "Lookup History") {
		t.Error("View missing title")
	}
	if !strings.Contains(view, "1HGCM82633A004352") {
		t.Error("View missing cell content")
	}
}

func TestSimpleTableEmpty(t *testing.T) {
	table := NewSimpleTable("Empty", []string{"A"})
	if got := table.View(DefaultStyles()); got != "" {
		t.Errorf("empty table rendered %q", got)
	}
}

func TestThemeByName(t *testing.T) {
	if !ThemeByName("dark").IsDark {
		t.Error("dark theme not dark")
	}
	if ThemeByName("light").IsDark {
		t.Error("light theme is dark")
	}
}
