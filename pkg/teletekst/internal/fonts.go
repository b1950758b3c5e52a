package internal

import (
	"errors"
	"fmt"

	"github.com/veandco/go-sdl2/ttf"
)

// fallbackFonts are tried when the theme font cannot be opened.
var fallbackFonts = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono-Bold.ttf",
	"/usr/share/fonts/dejavu/DejaVuSansMono-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSansMono-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationMono-Bold.ttf",
	"C:\\Windows\\Fonts\\consolab.ttf",
}

// openFont opens the first usable font of path and the fallbacks.
func openFont(path string, size int) (*ttf.Font, error) {
	candidates := fallbackFonts
	if path != "" {
		candidates = append([]string{path}, fallbackFonts...)
	}

	var errs []error
	for _, candidate := range candidates {
		font, err := ttf.OpenFont(candidate, size)
		if err == nil {
			GetLogger().Debug("Loaded font", "path", candidate, "size", size)
			return font, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", candidate, err))
	}
	return nil, errors.Join(errs...)
}
