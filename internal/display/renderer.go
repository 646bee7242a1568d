package display

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	on  = color.Gray{Y: 255}
	off = color.Gray{Y: 0}
)

// Renderer draws text into a monochrome frame buffer
type Renderer struct {
	img  *image.Gray
	face font.Face
}

// NewRenderer creates a renderer for a width x height panel
func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		img:  image.NewGray(image.Rect(0, 0, width, height)),
		face: basicfont.Face7x13,
	}
}

func (r *Renderer) Width() int  { return r.img.Rect.Dx() }
func (r *Renderer) Height() int { return r.img.Rect.Dy() }

// LineHeight is the height of one line of text
func (r *Renderer) LineHeight() int {
	return r.face.Metrics().Height.Ceil()
}

// Ascent is the distance from the top of a line to its baseline
func (r *Renderer) Ascent() int {
	return r.face.Metrics().Ascent.Ceil()
}

func (r *Renderer) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.Black, image.Point{}, draw.Src)
}

// SetPixel sets a single pixel
func (r *Renderer) SetPixel(x, y int, lit bool) {
	if lit {
		r.img.SetGray(x, y, on)
	} else {
		r.img.SetGray(x, y, off)
	}
}

// FillRect fills a rectangle with lit pixels
func (r *Renderer) FillRect(x, y, width, height int) {
	draw.Draw(r.img, image.Rect(x, y, x+width, y+height), image.White, image.Point{}, draw.Src)
}

// DrawRect draws a rectangle outline
func (r *Renderer) DrawRect(x, y, width, height int) {
	for i := x; i < x+width; i++ {
		r.img.SetGray(i, y, on)
		r.img.SetGray(i, y+height-1, on)
	}
	for i := y; i < y+height; i++ {
		r.img.SetGray(x, i, on)
		r.img.SetGray(x+width-1, i, on)
	}
}

// DrawText draws text with its baseline at y. When inverted the text is
// drawn dark, for use on a filled background.
func (r *Renderer) DrawText(x, y int, text string, inverted bool) {
	src := image.White
	if inverted {
		src = image.Black
	}
	d := &font.Drawer{
		Dst:  r.img,
		Src:  src,
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// DrawTextWrapped draws text word-wrapped to maxWidth, first baseline at y,
// and returns the height used
func (r *Renderer) DrawTextWrapped(x, y, maxWidth int, text string) int {
	lines := r.wrap(text, maxWidth)
	for i, line := range lines {
		r.DrawText(x, y+i*r.LineHeight(), line, false)
	}
	return len(lines) * r.LineHeight()
}

func (r *Renderer) wrap(text string, maxWidth int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && font.MeasureString(r.face, candidate).Ceil() > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// FrameBuffer packs the whole panel, see Pack
func (r *Renderer) FrameBuffer() []byte {
	return r.Pack(r.img.Rect)
}

// Pack returns the pixels of rect as 1-bit data, row-major, 8 pixels per
// byte, MSB first
func (r *Renderer) Pack(rect image.Rectangle) []byte {
	bytesPerRow := (rect.Dx() + 7) / 8
	data := make([]byte, bytesPerRow*rect.Dy())

	for dy := 0; dy < rect.Dy(); dy++ {
		for dx := 0; dx < rect.Dx(); dx++ {
			if r.img.GrayAt(rect.Min.X+dx, rect.Min.Y+dy).Y > 127 {
				data[dy*bytesPerRow+dx/8] |= 1 << (7 - dx%8)
			}
		}
	}
	return data
}
