package layout

import "unicode/utf8"

// Ellipsis marks a truncated label.
const Ellipsis = "…"

// Settings controls label truncation and sidebar sizing. All sizes are in
// characters; zero or negative disables the limit.
type Settings struct {
	MaxValueLabel            int // parameter values shown next to data inputs
	MaxTypeLabel             int // type name in the block's name section
	MinPinLabel              int // minimum reserved width for port labels
	MaxPinLabel              int // port labels on blocks
	MinInterfaceBar          int // minimum sidebar label width
	MaxInterfaceBar          int // boundary port labels
	MaxHiddenConnectionLabel int // reserved for hidden-connection stubs

	// Pixel margins. LeftRight widens every block on both sides,
	// TopBottom extends the frame's vertical padding.
	MarginTopBottom float64
	MarginLeftRight float64
}

// DefaultSettings returns the stock block size settings.
func DefaultSettings() Settings {
	return Settings{
		MaxValueLabel:            25,
		MaxTypeLabel:             15,
		MinPinLabel:              0,
		MaxPinLabel:              12,
		MinInterfaceBar:          0,
		MaxInterfaceBar:          40,
		MaxHiddenConnectionLabel: 15,
	}
}

// Truncate shortens text to at most max runes followed by an ellipsis.
// A max of zero or less disables truncation. Truncating an already
// truncated label with the same limit returns it unchanged.
func Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max]) + Ellipsis
}
