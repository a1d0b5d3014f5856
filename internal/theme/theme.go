// Package theme holds the two fixed color palettes the app renders with.
// Palette selection is driven solely by UserSettings.Theme; the store
// defaults to Dark when settings are unavailable.
package theme

// Palette is a named set of UI colors, all hex strings.
type Palette struct {
	Name           string `json:"name"`
	Background     string `json:"background"`
	Card           string `json:"card"`
	Text           string `json:"text"`
	TextSecondary  string `json:"text_secondary"`
	TextMuted      string `json:"text_muted"`
	Border         string `json:"border"`
	Notification   string `json:"notification"`
	TabBar         string `json:"tab_bar"`
	TabBarInactive string `json:"tab_bar_inactive"`
}

var (
	// Dark is the default palette.
	Dark = Palette{
		Name:           "dark",
		Background:     "#000000",
		Card:           "#1C1C1E",
		Text:           "#FFFFFF",
		TextSecondary:  "#F2F2F7",
		TextMuted:      "#A1A1AA",
		Border:         "#2C2C2E",
		Notification:   "#007AFF",
		TabBar:         "#121212",
		TabBarInactive: "#8E8E93",
	}

	Light = Palette{
		Name:           "light",
		Background:     "#FFFFFF",
		Card:           "#F8F9FA",
		Text:           "#000000",
		TextSecondary:  "#1C1C1E",
		TextMuted:      "#6B7280",
		Border:         "#E5E7EB",
		Notification:   "#007AFF",
		TabBar:         "#FFFFFF",
		TabBarInactive: "#9CA3AF",
	}
)
