package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

const prefTheme = "ui.theme" // "light" or "dark"; empty follows the system

// variantTheme pins the default theme to one variant so the toggle wins
// over the desktop setting.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t *variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func (a *Application) applySavedTheme() {
	switch a.app.Preferences().String(prefTheme) {
	case "dark":
		a.app.Settings().SetTheme(&variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark})
	case "light":
		a.app.Settings().SetTheme(&variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight})
	}
}

func (a *Application) onToggleTheme() {
	next := "dark"
	if a.app.Preferences().String(prefTheme) == "dark" {
		next = "light"
	}
	a.app.Preferences().SetString(prefTheme, next)
	a.applySavedTheme()
}
