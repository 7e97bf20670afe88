package certificate

import (
	"errors"
	"fmt"
)

const (
	VariantClassic = "classic"
	VariantModern  = "modern"
	VariantAward   = "award"
)

// Default canvas size, A4 landscape at 96 dpi.
const (
	DefaultWidth  = 1123
	DefaultHeight = 794
)

var ErrUnknownVariant = errors.New("unknown template variant")

func ValidVariant(variant string) bool {
	switch variant {
	case VariantClassic, VariantModern, VariantAward:
		return true
	}
	return false
}

// Render clears the surface and draws one certificate layout. It is a
// pure function of (surface size, data, variant): repeated calls with
// the same inputs draw the same operations.
func Render(s Surface, data Data, variant string) error {
	switch variant {
	case VariantClassic:
		renderClassic(s, data)
	case VariantModern:
		renderModern(s, data)
	case VariantAward:
		renderAward(s, data)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
	return nil
}

func issueDateLabel(data Data) string {
	return data.IssuedAt.Format("January 2, 2006")
}

// drawDescription wraps the free-text description to contentWidth and
// draws it line by line. Returns the y position after the last line.
func drawDescription(s Surface, data Data, centerX, y, contentWidth, lineHeight float64, color string, align Align) float64 {
	if data.Description == "" {
		return y
	}

	s.SetFont(16, false)
	for _, line := range WrapText(s, data.Description, contentWidth) {
		s.FillText(line, centerX, y, color, align)
		y += lineHeight
	}
	return y
}

func renderClassic(s Surface, data Data) {
	width, height := s.Size()
	centerX := width / 2

	s.FillRect(0, 0, width, height, "#fdfaf1")
	s.StrokeRect(24, 24, width-48, height-48, 3, "#b08d2f")
	s.StrokeRect(36, 36, width-72, height-72, 1, "#b08d2f")

	if data.Logo != nil {
		s.DrawImage(data.Logo, centerX-45, 56, 90, 90)
	}

	s.SetFont(40, true)
	s.FillText("Certificate of Completion", centerX, 190, "#2e2a1f", AlignCenter)

	s.SetFont(17, false)
	s.FillText("This certificate is proudly presented to", centerX, 250, "#6b6452", AlignCenter)

	s.SetFont(46, true)
	s.FillText(data.RecipientName, centerX, 320, "#8a6d1d", AlignCenter)
	s.Line(centerX-240, 350, centerX+240, 350, 1.5, "#b08d2f")

	s.SetFont(19, false)
	s.FillText("for successfully completing the course", centerX, 392, "#6b6452", AlignCenter)
	s.SetFont(26, true)
	s.FillText(data.CourseTitle, centerX, 432, "#2e2a1f", AlignCenter)

	drawDescription(s, data, centerX, 478, width-360, 24, "#6b6452", AlignCenter)

	s.SetFont(16, false)
	s.FillText(issueDateLabel(data), width/4, height-150, "#2e2a1f", AlignCenter)
	s.Line(width/4-110, height-135, width/4+110, height-135, 1, "#2e2a1f")
	s.SetFont(14, false)
	s.FillText("Date", width/4, height-112, "#6b6452", AlignCenter)

	if data.Signature != nil {
		s.DrawImage(data.Signature, 3*width/4-80, height-215, 160, 60)
	}
	s.SetFont(16, false)
	s.FillText(data.TrainerName, 3*width/4, height-150, "#2e2a1f", AlignCenter)
	s.Line(3*width/4-110, height-135, 3*width/4+110, height-135, 1, "#2e2a1f")
	s.SetFont(14, false)
	s.FillText("Trainer", 3*width/4, height-112, "#6b6452", AlignCenter)

	s.SetFont(12, false)
	s.FillText("Certificate No. "+data.Number, centerX, height-58, "#9a927c", AlignCenter)
}

func renderModern(s Surface, data Data) {
	width, height := s.Size()
	left := 120.0

	s.FillRect(0, 0, width, height, "#ffffff")
	s.FillRect(0, 0, 26, height, "#14746f")
	s.FillRect(26, 0, 6, height, "#ffb627")

	if data.Logo != nil {
		s.DrawImage(data.Logo, width-196, 64, 110, 110)
	}

	s.SetFont(20, false)
	s.FillText("CERTIFICATE", left, 130, "#14746f", AlignLeft)
	s.SetFont(44, true)
	s.FillText("of Completion", left, 186, "#101c1b", AlignLeft)
	s.Line(left, 216, left+220, 216, 4, "#ffb627")

	s.SetFont(16, false)
	s.FillText("Awarded to", left, 286, "#5a6a68", AlignLeft)
	s.SetFont(40, true)
	s.FillText(data.RecipientName, left, 340, "#14746f", AlignLeft)

	s.SetFont(17, false)
	s.FillText("for completing", left, 400, "#5a6a68", AlignLeft)
	s.SetFont(25, true)
	s.FillText(data.CourseTitle, left, 440, "#101c1b", AlignLeft)

	drawDescription(s, data, left, 490, width-left-200, 24, "#5a6a68", AlignLeft)

	s.SetFont(15, false)
	s.FillText("Issued "+issueDateLabel(data), left, height-120, "#101c1b", AlignLeft)

	if data.Signature != nil {
		s.DrawImage(data.Signature, width-360, height-210, 160, 60)
	}
	s.Line(width-380, height-135, width-140, height-135, 1, "#101c1b")
	s.SetFont(15, false)
	s.FillText(data.TrainerName, width-260, height-112, "#101c1b", AlignCenter)

	s.SetFont(11, false)
	s.FillText("No. "+data.Number, left, height-62, "#9aa7a5", AlignLeft)
}

func renderAward(s Surface, data Data) {
	width, height := s.Size()
	centerX := width / 2

	s.FillRect(0, 0, width, height, "#132a4a")
	s.FillRect(18, 18, width-36, height-36, "#16325c")
	s.StrokeRect(34, 34, width-68, height-68, 2, "#d9a441")

	// Gold seal, lower right corner.
	s.FillCircle(width-150, height-160, 52, "#d9a441")
	s.FillCircle(width-150, height-160, 42, "#b9862e")
	s.SetFont(13, true)
	s.FillText("AWARD", width-150, height-160, "#132a4a", AlignCenter)

	if data.Logo != nil {
		s.DrawImage(data.Logo, centerX-40, 58, 80, 80)
	}

	s.SetFont(42, true)
	s.FillText("Certificate of Achievement", centerX, 188, "#f4ede0", AlignCenter)
	s.Line(centerX-190, 216, centerX+190, 216, 2, "#d9a441")

	s.SetFont(17, false)
	s.FillText("This award is presented to", centerX, 266, "#c4cedd", AlignCenter)
	s.SetFont(48, true)
	s.FillText(data.RecipientName, centerX, 334, "#d9a441", AlignCenter)

	s.SetFont(18, false)
	s.FillText("in recognition of outstanding achievement in", centerX, 398, "#c4cedd", AlignCenter)
	s.SetFont(27, true)
	s.FillText(data.CourseTitle, centerX, 440, "#f4ede0", AlignCenter)

	drawDescription(s, data, centerX, 488, width-380, 24, "#c4cedd", AlignCenter)

	s.SetFont(15, false)
	s.FillText(issueDateLabel(data), centerX, height-168, "#f4ede0", AlignCenter)

	if data.Signature != nil {
		s.DrawImage(data.Signature, 190, height-215, 160, 60)
	}
	s.Line(170, height-135, 410, height-135, 1, "#c4cedd")
	s.SetFont(15, false)
	s.FillText(data.TrainerName, 290, height-112, "#f4ede0", AlignCenter)

	s.SetFont(12, false)
	s.FillText("Certificate No. "+data.Number, centerX, height-58, "#8899b4", AlignCenter)
}
