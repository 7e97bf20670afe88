package certificate

import "strings"

// WrapText breaks text into lines that fit maxWidth under the surface's
// current font, measuring the rendered width of each candidate line
// before committing a break. Breaks happen on word boundaries only; a
// single word wider than maxWidth gets a line of its own.
func WrapText(s Surface, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, 4)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if s.MeasureText(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}

	return append(lines, current)
}
