package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var colorEnabled = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func styled(color string) lipgloss.Style {
	if !colorEnabled {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// OkStyle styles success markers
func OkStyle() lipgloss.Style {
	return styled("#4dca7d")
}

// WarnStyle styles warning markers
func WarnStyle() lipgloss.Style {
	return styled("#f5c800")
}

// ErrorStyle styles error markers
func ErrorStyle() lipgloss.Style {
	return styled("#f46251")
}

// BranchStyle styles branch names in run output
func BranchStyle() lipgloss.Style {
	return styled("#4ccbf1")
}
