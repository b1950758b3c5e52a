package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"github.com/kiep/teletekst/pkg/teletekst/fetch"
	"github.com/kiep/teletekst/pkg/teletekst/kiosk"
	"github.com/kiep/teletekst/pkg/teletekst/scan"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

var ErrNoWindow = errors.New("window not initialized")

// Presenter draws the page, zoom, page number overlay and status icon into
// the window. It implements kiosk.Presenter; call Render once per frame.
type Presenter struct {
	window   *Window
	renderer *sdl.Renderer
	theme    Theme
	logger   *slog.Logger

	page   *sdl.Texture
	pageW  int32
	pageH  int32
	target fetch.Target
	layout PageLayout

	zoom       scan.ZoomTransform
	digits     string
	showDigits bool

	status      kiosk.Status
	statusSince time.Time

	font     *ttf.Font
	textures *TextureCache[*sdl.Texture]
}

// NewPresenter prepares a presenter for the initialized window.
func NewPresenter(logger *slog.Logger) (*Presenter, error) {
	w := GetWindow()
	if w == nil {
		return nil, ErrNoWindow
	}
	if logger == nil {
		logger = GetLogger()
	}

	p := &Presenter{
		window:   w,
		renderer: w.Renderer,
		theme:    GetTheme(),
		logger:   logger,
		zoom:     scan.Identity,
		textures: NewTextureCache[*sdl.Texture](),
	}
	p.Resize()

	font, err := openFont(p.theme.FontPath, int(p.layout.Overlay.H*2/3))
	if err != nil {
		p.logger.Warn("No font for the page number overlay", "error", err)
	}
	p.font = font
	return p, nil
}

// Resize recomputes the layout after the window size changed.
func (p *Presenter) Resize() {
	w, h := p.window.Size()
	p.layout = CalculatePageLayout(w, h, p.pageW, p.pageH)
}

func (p *Presenter) ShowPage(t fetch.Target, data []byte) error {
	rw, err := sdl.RWFromMem(data)
	if err != nil {
		return fmt.Errorf("wrap page image: %w", err)
	}
	surface, err := img.LoadRW(rw, true)
	if err != nil {
		return fmt.Errorf("decode page image: %w", err)
	}
	defer surface.Free()

	texture, err := p.renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return fmt.Errorf("create page texture: %w", err)
	}

	if p.page != nil {
		p.page.Destroy()
	}
	p.page = texture
	p.pageW, p.pageH = surface.W, surface.H
	p.target = t
	p.Resize()

	p.logger.Debug("Page texture ready", "target", t.String(), "width", p.pageW, "height", p.pageH)
	return nil
}

func (p *Presenter) ApplyZoom(z scan.ZoomTransform) {
	p.zoom = z
}

func (p *Presenter) ContentSize() (float64, float64) {
	return float64(p.layout.Content.W), float64(p.layout.Content.H)
}

func (p *Presenter) ShowDigits(digits string) {
	p.digits = digits
	p.showDigits = true
}

func (p *Presenter) HideDigits() {
	p.showDigits = false
}

func (p *Presenter) ShowStatus(s kiosk.Status) {
	if s != p.status {
		p.statusSince = time.Now()
	}
	p.status = s
}

// Render draws one frame.
func (p *Presenter) Render(now time.Time) {
	bg := p.theme.BackgroundColor
	p.renderer.SetDrawColor(bg.R, bg.G, bg.B, bg.A)
	p.renderer.Clear()

	p.renderPage()
	if p.showDigits {
		p.renderDigits()
	}
	p.renderStatus(now)

	p.window.Present()
}

func (p *Presenter) renderPage() {
	if p.page == nil {
		return
	}

	content := p.layout.Content
	x, y, w, h := p.zoom.Apply(float64(content.X), float64(content.Y), float64(content.W), float64(content.H))
	dst := sdl.Rect{X: int32(x), Y: int32(y), W: int32(w), H: int32(h)}

	p.renderer.SetClipRect(&content)
	p.renderer.Copy(p.page, nil, &dst)
	p.renderer.SetClipRect(nil)
}

func (p *Presenter) renderDigits() {
	box := p.layout.Overlay
	oc := p.theme.OverlayColor
	p.renderer.SetDrawColor(oc.R, oc.G, oc.B, oc.A)
	p.renderer.FillRect(&box)

	if p.font == nil || p.digits == "" {
		return
	}

	key := "digits:" + p.digits
	texture, ok := p.textures.Get(key)
	if !ok {
		t, err := p.renderText(p.digits)
		if err != nil {
			p.logger.Debug("Rendering page number failed", "error", err)
			return
		}
		p.textures.Set(key, t)
		texture = t
	}

	_, _, tw, th, err := texture.Query()
	if err != nil {
		return
	}
	tw, th = FitDimensions(tw, th, box.W, box.H)
	dst := CenterIn(box, tw, th)
	p.renderer.Copy(texture, nil, &dst)
}

func (p *Presenter) renderText(text string) (*sdl.Texture, error) {
	surface, err := p.font.RenderUTF8Blended(text, p.theme.OverlayTextColor)
	if err != nil {
		return nil, err
	}
	defer surface.Free()

	return p.renderer.CreateTextureFromSurface(surface)
}

func (p *Presenter) renderStatus(now time.Time) {
	var svg, name string
	switch p.status {
	case kiosk.StatusLoading:
		svg, name = constants.SyncIcon, "sync"
	case kiosk.StatusError:
		svg, name = constants.ErrorIcon, "error"
	default:
		return
	}

	size := p.layout.IconSize
	key := fmt.Sprintf("icon:%s:%d", name, size)
	texture, ok := p.textures.Get(key)
	if !ok {
		t, err := svgTexture(p.renderer, svg, size)
		if err != nil {
			p.logger.Debug("Rasterizing status icon failed", "icon", name, "error", err)
			return
		}
		if p.status == kiosk.StatusLoading {
			ic := p.theme.IconColor
			t.SetColorMod(ic.R, ic.G, ic.B)
		}
		p.textures.Set(key, t)
		texture = t
	}

	dst := p.layout.Status
	if p.status != kiosk.StatusLoading {
		p.renderer.Copy(texture, nil, &dst)
		return
	}

	// The sync icon turns clockwise once per spin period.
	elapsed := now.Sub(p.statusSince) % constants.StatusSpinPeriod
	angle := 360 * float64(elapsed) / float64(constants.StatusSpinPeriod)
	p.renderer.CopyEx(texture, nil, &dst, angle, nil, sdl.FLIP_NONE)
}

// Destroy releases every texture and the font.
func (p *Presenter) Destroy() {
	if p.page != nil {
		p.page.Destroy()
		p.page = nil
	}
	p.textures.Destroy()
	if p.font != nil {
		p.font.Close()
		p.font = nil
	}
}
