package internal

import "github.com/veandco/go-sdl2/sdl"

// Padding defines spacing on all four sides of an element.
type Padding struct {
	Top    int32
	Right  int32
	Bottom int32
	Left   int32
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(value int32) Padding {
	return Padding{
		Top:    value,
		Right:  value,
		Bottom: value,
		Left:   value,
	}
}

// PageLayout holds the positions derived from the window size. It is computed
// whenever the window or the page image changes size.
type PageLayout struct {
	WindowWidth  int32
	WindowHeight int32

	// Content is the page image fitted inside the window, aspect preserved
	// and centered. Zoom transforms are applied relative to it.
	Content sdl.Rect

	Overlay  sdl.Rect // page number box
	Status   sdl.Rect // status icon
	IconSize int32
}

// CalculatePageLayout fits an imageW x imageH page into the window. The page
// number box is a third of the window wide in the top-right corner and the
// status icon sits in the bottom-right corner.
func CalculatePageLayout(windowWidth, windowHeight, imageW, imageH int32) PageLayout {
	if imageW <= 0 || imageH <= 0 {
		imageW, imageH = windowWidth, windowHeight
	}

	contentW, contentH := FitDimensions(imageW, imageH, windowWidth, windowHeight)
	margin := UniformPadding(windowHeight / 40)

	iconSize := windowHeight / 12
	if iconSize < 16 {
		iconSize = 16
	}

	overlayW := windowWidth / 3
	overlayH := windowHeight / 6

	return PageLayout{
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		Content: sdl.Rect{
			X: (windowWidth - contentW) / 2,
			Y: (windowHeight - contentH) / 2,
			W: contentW,
			H: contentH,
		},
		Overlay: sdl.Rect{
			X: windowWidth - overlayW - margin.Right,
			Y: margin.Top,
			W: overlayW,
			H: overlayH,
		},
		Status: sdl.Rect{
			X: windowWidth - iconSize - margin.Right,
			Y: windowHeight - iconSize - margin.Bottom,
			W: iconSize,
			H: iconSize,
		},
		IconSize: iconSize,
	}
}

// FitDimensions scales w x h to the largest size inside maxW x maxH with the
// same aspect ratio.
func FitDimensions(w, h, maxW, maxH int32) (int32, int32) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}

	ratio := float64(maxW) / float64(w)
	if r := float64(maxH) / float64(h); r < ratio {
		ratio = r
	}

	return int32(float64(w) * ratio), int32(float64(h) * ratio)
}

// CenterIn returns a w x h rectangle centered inside r.
func CenterIn(r sdl.Rect, w, h int32) sdl.Rect {
	return sdl.Rect{
		X: r.X + (r.W-w)/2,
		Y: r.Y + (r.H-h)/2,
		W: w,
		H: h,
	}
}
