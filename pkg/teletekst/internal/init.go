// Package internal contains the SDL presentation shell of the viewer: window
// setup, page decoding and zoomed rendering, the page number overlay, the
// status icon, and the process logger.
// Types and functions in this package are not part of the public API.
package internal
