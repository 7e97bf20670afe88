package certificate

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ImageSurface is the raster Surface implementation, drawing into an
// in-memory RGBA canvas with the embedded Go fonts.
type ImageSurface struct {
	dc      *gg.Context
	regular *truetype.Font
	bold    *truetype.Font
}

func NewImageSurface(width, height int) (*ImageSurface, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	s := &ImageSurface{
		dc:      gg.NewContext(width, height),
		regular: regular,
		bold:    bold,
	}
	s.SetFont(16, false)
	return s, nil
}

func (s *ImageSurface) Size() (float64, float64) {
	return float64(s.dc.Width()), float64(s.dc.Height())
}

func (s *ImageSurface) FillRect(x, y, w, h float64, color string) {
	s.dc.SetHexColor(color)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

func (s *ImageSurface) StrokeRect(x, y, w, h, lineWidth float64, color string) {
	s.dc.SetHexColor(color)
	s.dc.SetLineWidth(lineWidth)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Stroke()
}

func (s *ImageSurface) Line(x1, y1, x2, y2, lineWidth float64, color string) {
	s.dc.SetHexColor(color)
	s.dc.SetLineWidth(lineWidth)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *ImageSurface) FillCircle(x, y, r float64, color string) {
	s.dc.SetHexColor(color)
	s.dc.DrawCircle(x, y, r)
	s.dc.Fill()
}

func (s *ImageSurface) SetFont(size float64, bold bool) {
	f := s.regular
	if bold {
		f = s.bold
	}
	s.dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size}))
}

func (s *ImageSurface) MeasureText(text string) float64 {
	w, _ := s.dc.MeasureString(text)
	return w
}

func (s *ImageSurface) FillText(text string, x, y float64, color string, align Align) {
	var ax float64
	switch align {
	case AlignCenter:
		ax = 0.5
	case AlignRight:
		ax = 1
	}
	s.dc.SetHexColor(color)
	s.dc.DrawStringAnchored(text, x, y, ax, 0.5)
}

func (s *ImageSurface) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	scaled := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	s.dc.DrawImage(scaled, int(x), int(y))
}

func (s *ImageSurface) Image() image.Image {
	return s.dc.Image()
}

func (s *ImageSurface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// RenderPNG draws one certificate at the default canvas size and
// returns the encoded PNG bytes.
func RenderPNG(data Data, variant string) ([]byte, error) {
	surface, err := NewImageSurface(DefaultWidth, DefaultHeight)
	if err != nil {
		return nil, err
	}
	if err := Render(surface, data, variant); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
