package scan

import "github.com/kiep/teletekst/pkg/teletekst/constants"

// Direction represents an arrow key.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

// quadrantMoves lists, per arrow, the modes it moves out of. A mode that is
// not listed does not move: the arrow points off the page.
var quadrantMoves = map[Direction]map[ScanMode]ScanMode{
	DirectionLeft: {
		NoZoom:          ZoomTopLeft,
		ZoomTopRight:    ZoomTopLeft,
		ZoomBottomRight: ZoomBottomLeft,
	},
	DirectionRight: {
		NoZoom:         ZoomTopRight,
		ZoomTopLeft:    ZoomTopRight,
		ZoomBottomLeft: ZoomBottomRight,
	},
	DirectionUp: {
		NoZoom:          ZoomTopLeft,
		ZoomBottomLeft:  ZoomTopLeft,
		ZoomBottomRight: ZoomTopRight,
	},
	DirectionDown: {
		NoZoom:       ZoomBottomLeft,
		ZoomTopLeft:  ZoomBottomLeft,
		ZoomTopRight: ZoomBottomRight,
	},
}

// directionFor returns the Direction for an arrow key, or DirectionNone.
func directionFor(code constants.KeyCode) Direction {
	switch code {
	case constants.KeyUp:
		return DirectionUp
	case constants.KeyDown:
		return DirectionDown
	case constants.KeyLeft:
		return DirectionLeft
	case constants.KeyRight:
		return DirectionRight
	default:
		return DirectionNone
	}
}

// Move returns the mode reached by pressing d in mode, and whether it moved.
func (d Direction) Move(mode ScanMode) (ScanMode, bool) {
	next, ok := quadrantMoves[d][mode]
	return next, ok
}

// String returns a string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return ""
	}
}
