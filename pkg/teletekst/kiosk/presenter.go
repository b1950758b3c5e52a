package kiosk

import (
	"github.com/kiep/teletekst/pkg/teletekst/fetch"
	"github.com/kiep/teletekst/pkg/teletekst/scan"
)

// Status is the indicator shown next to the page.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Presenter draws the viewer. All methods are called on the application
// goroutine.
type Presenter interface {
	// ShowPage decodes and displays a page image.
	ShowPage(t fetch.Target, image []byte) error
	ApplyZoom(z scan.ZoomTransform)
	// ContentSize is the size of the displayed page before zooming.
	ContentSize() (width, height float64)
	ShowDigits(digits string)
	HideDigits()
	ShowStatus(s Status)
}
