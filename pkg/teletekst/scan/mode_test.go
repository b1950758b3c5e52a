package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	const w, h = 480, 300

	tests := []struct {
		mode ScanMode
		want ZoomTransform
	}{
		{NoZoom, ZoomTransform{ScaleX: 1, ScaleY: 1}},
		{ZoomTopLeft, ZoomTransform{ScaleX: 2, ScaleY: 2}},
		{ZoomTopRight, ZoomTransform{ScaleX: 2, ScaleY: 2, TranslateX: -w}},
		{ZoomBottomLeft, ZoomTransform{ScaleX: 2, ScaleY: 2, TranslateY: -h}},
		{ZoomBottomRight, ZoomTransform{ScaleX: 2, ScaleY: 2, TranslateX: -w, TranslateY: -h}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got, ok := Transform(tt.mode, w, h)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.ScaleX, 1.0)
			assert.LessOrEqual(t, got.TranslateX, 0.0)
			assert.LessOrEqual(t, got.TranslateY, 0.0)
		})
	}

	_, ok := Transform(Quit, w, h)
	assert.False(t, ok)
}

func TestZoomTransform_Apply(t *testing.T) {
	z, _ := Transform(ZoomBottomRight, 400, 300)
	x, y, w, h := z.Apply(0, 0, 400, 300)

	// The bottom-right quarter of the content now covers the display.
	assert.Equal(t, -400.0, x)
	assert.Equal(t, -300.0, y)
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)
}

func TestDirection_String(t *testing.T) {
	assert.Equal(t, "left", DirectionLeft.String())
	assert.Equal(t, "", DirectionNone.String())
	_, ok := DirectionNone.Move(NoZoom)
	assert.False(t, ok)
}
