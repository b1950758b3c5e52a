// Package kiep provides the default theme of the Kiep kiosk: the page on a
// black background, a yellow page number box as on a teletext set, and a
// white status icon.
package kiep

import (
	"github.com/kiep/teletekst/pkg/teletekst/internal"
)

// InitKiepTheme creates the kiosk theme with the specified font.
func InitKiepTheme(fontPath string) internal.Theme {
	return internal.Theme{
		BackgroundColor:  internal.HexToColor(0x000000),
		OverlayColor:     internal.HexToColor(0xFFFF00),
		OverlayTextColor: internal.HexToColor(0x000000),
		IconColor:        internal.HexToColor(0xFFFFFF),
		FontPath:         fontPath,
	}
}
