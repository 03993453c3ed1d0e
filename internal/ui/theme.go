package ui

import (
	"charm.land/lipgloss/v2"
	catppuccin "github.com/catppuccin/go"
)

type Theme struct {
	Header      lipgloss.Style
	Status      lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	PanelBody   lipgloss.Style
	FocusTitle  lipgloss.Style
	FocusBorder lipgloss.Style
	Accent      lipgloss.Style
	Muted       lipgloss.Style
	Fail        lipgloss.Style
}

func DefaultTheme() Theme {
	return ThemeForVariant("ink")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "parchment":
		return parchmentTheme()
	case "mocha":
		return mochaTheme()
	default:
		return inkTheme()
	}
}

func inkTheme() Theme {
	ink := lipgloss.Color("#101622")
	slate := lipgloss.Color("#1C2738")
	powder := lipgloss.Color("#E8F0FE")
	blue := lipgloss.Color("#6FC3FF")
	gold := lipgloss.Color("#F3C969")
	brick := lipgloss.Color("#FF7488")
	border := lipgloss.Color("#45597E")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(powder).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		PanelBorder: lipgloss.NewStyle().
			Foreground(border),
		PanelBody: lipgloss.NewStyle().
			Foreground(powder),
		FocusTitle: lipgloss.NewStyle().
			Foreground(gold).
			Bold(true),
		FocusBorder: lipgloss.NewStyle().
			Foreground(gold),
		Accent: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3BF")),
		Fail: lipgloss.NewStyle().
			Foreground(brick).
			Bold(true),
	}
}

func parchmentTheme() Theme {
	night := lipgloss.Color("#262117")
	shelf := lipgloss.Color("#3A3222")
	cream := lipgloss.Color("#F6EEDC")
	honey := lipgloss.Color("#D9A648")
	moss := lipgloss.Color("#9DB87C")
	rust := lipgloss.Color("#C96F5A")

	return Theme{
		Header:      lipgloss.NewStyle().Background(night).Foreground(cream).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(shelf).Foreground(cream).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(shelf),
		PanelBody:   lipgloss.NewStyle().Foreground(cream),
		FocusTitle:  lipgloss.NewStyle().Foreground(moss).Bold(true),
		FocusBorder: lipgloss.NewStyle().Foreground(moss),
		Accent:      lipgloss.NewStyle().Foreground(honey).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#AFA584")),
		Fail:        lipgloss.NewStyle().Foreground(rust).Bold(true),
	}
}

func mochaTheme() Theme {
	flavor := catppuccin.Mocha
	base := lipgloss.Color(flavor.Base().Hex)
	mantle := lipgloss.Color(flavor.Mantle().Hex)
	text := lipgloss.Color(flavor.Text().Hex)
	lavender := lipgloss.Color(flavor.Lavender().Hex)
	peach := lipgloss.Color(flavor.Peach().Hex)
	red := lipgloss.Color(flavor.Red().Hex)
	surface := lipgloss.Color(flavor.Surface1().Hex)
	subtext := lipgloss.Color(flavor.Subtext0().Hex)

	return Theme{
		Header:      lipgloss.NewStyle().Background(base).Foreground(text).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(mantle).Foreground(text).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(lavender).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(surface),
		PanelBody:   lipgloss.NewStyle().Foreground(text),
		FocusTitle:  lipgloss.NewStyle().Foreground(peach).Bold(true),
		FocusBorder: lipgloss.NewStyle().Foreground(peach),
		Accent:      lipgloss.NewStyle().Foreground(lavender).Bold(true),
		Muted:       lipgloss.NewStyle().Foreground(subtext),
		Fail:        lipgloss.NewStyle().Foreground(red).Bold(true),
	}
}
