package scan

// ScanMode is the current zoom-quadrant selection.
type ScanMode int

const (
	NoZoom ScanMode = iota
	ZoomTopLeft
	ZoomTopRight
	ZoomBottomLeft
	ZoomBottomRight
	Quit
)

func (m ScanMode) String() string {
	switch m {
	case NoZoom:
		return "NoZoom"
	case ZoomTopLeft:
		return "ZoomTopLeft"
	case ZoomTopRight:
		return "ZoomTopRight"
	case ZoomBottomLeft:
		return "ZoomBottomLeft"
	case ZoomBottomRight:
		return "ZoomBottomRight"
	case Quit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// zoomFactor is how far a quadrant is magnified: one quarter of the page fills
// the whole display.
const zoomFactor = 2

// ZoomTransform is the scale-then-translate applied to the page image.
// Scale is at least 1 and translation is never positive.
type ZoomTransform struct {
	ScaleX, ScaleY         float64
	TranslateX, TranslateY float64
}

// Identity is the transform for NoZoom.
var Identity = ZoomTransform{ScaleX: 1, ScaleY: 1}

// Transform derives the zoom for mode given the displayed content size.
// It returns false for Quit, which has no transform.
func Transform(mode ScanMode, width, height float64) (ZoomTransform, bool) {
	z := ZoomTransform{ScaleX: zoomFactor, ScaleY: zoomFactor}

	switch mode {
	case NoZoom:
		return Identity, true
	case ZoomTopLeft:
	case ZoomTopRight:
		z.TranslateX = -width
	case ZoomBottomLeft:
		z.TranslateY = -height
	case ZoomBottomRight:
		z.TranslateX = -width
		z.TranslateY = -height
	default:
		return ZoomTransform{}, false
	}
	return z, true
}

// Apply maps a content rectangle through the transform and returns the
// destination rectangle.
func (z ZoomTransform) Apply(x, y, w, h float64) (float64, float64, float64, float64) {
	return x + z.TranslateX, y + z.TranslateY, w * z.ScaleX, h * z.ScaleY
}
