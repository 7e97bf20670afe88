package certificate

import (
	"image"
	"time"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface is the capability set the renderer needs from a drawing
// backend. Rendering against an interface keeps the layout code free of
// any raster library, so tests can run against a recording surface.
type Surface interface {
	Size() (width, height float64)
	FillRect(x, y, w, h float64, color string)
	StrokeRect(x, y, w, h, lineWidth float64, color string)
	Line(x1, y1, x2, y2, lineWidth float64, color string)
	FillCircle(x, y, r float64, color string)
	SetFont(size float64, bold bool)
	MeasureText(text string) float64
	FillText(text string, x, y float64, color string, align Align)
	DrawImage(img image.Image, x, y, w, h float64)
}

// Data is everything a certificate layout can show. Logo and Signature
// are optional; a nil image skips that drawing step.
type Data struct {
	Number        string
	RecipientName string
	CourseTitle   string
	TrainerName   string
	Description   string
	IssuedAt      time.Time
	Logo          image.Image
	Signature     image.Image
}
