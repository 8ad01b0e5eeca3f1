// Package assets renders the mini-app's promotional images: the launcher
// icon, the link preview card and the splash screen.
package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/vovakirdan/mini2048/internal/theme"
)

// Image describes one generated file.
type Image struct {
	Name   string
	Width  int
	Height int
	draw   func(c *canvas) error
}

// Result is a written file.
type Result struct {
	Name   string
	Path   string
	Width  int
	Height int
}

// Images lists everything Generate writes.
var Images = []Image{
	{Name: "icon.png", Width: 256, Height: 256, draw: drawIcon},
	{Name: "og-image.png", Width: 1200, Height: 630, draw: drawOGImage},
	{Name: "splash.png", Width: 1080, Height: 1920, draw: drawSplash},
}

var (
	white     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	softWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe6} // 90%
	panel     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x33} // 20%
)

// Generate renders every image into dir, creating it if needed.
func Generate(dir string) ([]Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("assets: cannot create directory %s: %w", dir, err)
	}

	results := make([]Result, 0, len(Images))
	for _, img := range Images {
		rendered, err := Render(img)
		if err != nil {
			return results, err
		}

		path := filepath.Join(dir, img.Name)
		if err := writePNG(path, rendered); err != nil {
			return results, err
		}
		results = append(results, Result{Name: img.Name, Path: path, Width: img.Width, Height: img.Height})
	}
	return results, nil
}

// Render draws a single image in memory.
func Render(img Image) (*image.RGBA, error) {
	c, err := newCanvas(img.Width, img.Height)
	if err != nil {
		return nil, err
	}
	defer c.close()

	c.gradient(theme.MustRGBA(theme.GradientTopHex), theme.MustRGBA(theme.GradientEndHex))
	if err := img.draw(c); err != nil {
		return nil, fmt.Errorf("assets: cannot draw %s: %w", img.Name, err)
	}
	return c.img, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("assets: cannot create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("assets: cannot encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("assets: cannot write %s: %w", path, err)
	}
	return nil
}

// drawIcon: translucent panel inset 20px with "2048" centered.
func drawIcon(c *canvas) error {
	w, h := float64(c.w), float64(c.h)
	c.fillRect(20, 20, w-40, h-40, panel)
	return c.text("2048", w/2, h/2, 80, true, alignMiddle, white)
}

// drawOGImage: a 4x4 board of tile colours above the title and tagline.
func drawOGImage(c *canvas) error {
	const (
		size = 4
		cell = 80.0
		gap  = 10.0
	)
	colors := []string{"#eee4da", "#ede0c8", "#f2b179", "#f59563", "#f67c5f"}

	w, h := float64(c.w), float64(c.h)
	boardW := size*cell + (size+1)*gap
	boardH := boardW
	boardX := (w - boardW) / 2
	boardY := (h-boardH)/2 - 40

	for i := range size {
		for j := range size {
			x := boardX + float64(j)*(cell+gap) + gap
			y := boardY + float64(i)*(cell+gap) + gap
			c.fillRect(x, y, cell, cell, theme.MustRGBA(colors[(i+j)%len(colors)]))
		}
	}

	if err := c.text("2048 Game", w/2, boardY+boardH+80, 72, true, alignBaseline, white); err != nil {
		return err
	}
	return c.text("Join the tiles, get to 2048!", w/2, boardY+boardH+130, 36, false, alignBaseline, softWhite)
}

// splashValues is the showcase board, one tile per power of two.
var splashValues = [4][4]int{
	{2, 4, 8, 16},
	{32, 64, 128, 256},
	{512, 1024, 2048, 4096},
	{8192, 16384, 32768, 65536},
}

// drawSplash: a numbered board with the title above and tagline below.
// Tiles past 2048 are drawn without a label.
func drawSplash(c *canvas) error {
	const (
		size = 4
		cell = 120.0
		gap  = 15.0
	)

	w, h := float64(c.w), float64(c.h)
	boardW := size*cell + (size+1)*gap
	boardH := boardW
	boardX := (w - boardW) / 2
	boardY := h/2 - boardH/2 - 100

	for i := range size {
		for j := range size {
			x := boardX + float64(j)*(cell+gap) + gap
			y := boardY + float64(i)*(cell+gap) + gap
			value := splashValues[i][j]
			c.fillRect(x, y, cell, cell, theme.TileRGBA(value))

			if value > 2048 {
				continue
			}
			err := c.text(strconv.Itoa(value), x+cell/2, y+cell/2, labelSize(value), true, alignMiddle, theme.TextRGBA(value))
			if err != nil {
				return err
			}
		}
	}

	if err := c.text("2048", w/2, boardY-150, 96, true, alignBaseline, white); err != nil {
		return err
	}
	if err := c.text("Join the tiles", w/2, boardY+boardH+100, 48, false, alignBaseline, softWhite); err != nil {
		return err
	}
	return c.text("get to 2048!", w/2, boardY+boardH+160, 48, false, alignBaseline, softWhite)
}

// labelSize shrinks the font as numbers get longer.
func labelSize(value int) float64 {
	switch {
	case value >= 1000:
		return 36
	case value >= 100:
		return 42
	}
	return 48
}

type vAlign int

const (
	alignBaseline vAlign = iota // y is the text baseline
	alignMiddle                 // y is the vertical centre of the em box
)

// canvas is an RGBA image plus the fonts used on it.
type canvas struct {
	img     *image.RGBA
	w, h    int
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

func newCanvas(w, h int) (*canvas, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("assets: cannot parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("assets: cannot parse bold font: %w", err)
	}
	return &canvas{
		img:     image.NewRGBA(image.Rect(0, 0, w, h)),
		w:       w,
		h:       h,
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

func (c *canvas) close() {
	for _, f := range c.faces {
		f.Close()
	}
}

func (c *canvas) face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}

	src := c.regular
	if bold {
		src = c.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // 1pt == 1px
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("assets: cannot create %.0fpx face: %w", size, err)
	}
	c.faces[key] = f
	return f, nil
}

// gradient fills the canvas along the top-left to bottom-right diagonal.
func (c *canvas) gradient(from, to color.RGBA) {
	w, h := float64(c.w), float64(c.h)
	norm := w*w + h*h
	for y := range c.h {
		for x := range c.w {
			t := (float64(x)*w + float64(y)*h) / norm
			c.img.SetRGBA(x, y, lerp(from, to, t))
		}
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

// fillRect composites col over the rectangle at fractional coordinates.
func (c *canvas) fillRect(x, y, w, h float64, col color.Color) {
	r := image.Rect(
		int(math.Round(x)), int(math.Round(y)),
		int(math.Round(x+w)), int(math.Round(y+h)),
	)
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// text draws s horizontally centred on cx.
func (c *canvas) text(s string, cx, y, size float64, bold bool, align vAlign, col color.Color) error {
	face, err := c.face(size, bold)
	if err != nil {
		return err
	}

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
	}

	width := d.MeasureString(s)
	baseline := fixed.Int26_6(math.Round(y * 64))
	if align == alignMiddle {
		m := face.Metrics()
		baseline += (m.Ascent - m.Descent) / 2
	}
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(math.Round(cx*64)) - width/2,
		Y: baseline,
	}
	d.DrawString(s)
	return nil
}
