package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// placeholderCode stands in for a blank gift code on the front face.
const placeholderCode = "***"

// faces holds both sides of the card as equal-sized rune grids.
type faces struct {
	front [][]rune
	back  [][]rune
}

type faceContent struct {
	Title   string
	Name    string
	Code    string
	Barcode []string
}

// buildFaces lays the content out on two bordered w x h faces. Lines wider
// than the face are truncated.
func buildFaces(c faceContent, w, h int) faces {
	code := c.Code
	if code == "" {
		code = placeholderCode
	}
	front := []string{c.Title, ""}
	if c.Name != "" {
		front = append(front, c.Name, "")
	}
	front = append(front, code)

	back := append([]string(nil), c.Barcode...)
	return faces{front: box(front, w, h), back: box(back, w, h)}
}

// box centres lines inside a rounded border of w x h cells.
func box(lines []string, w, h int) [][]rune {
	if w < 4 {
		w = 4
	}
	if h < 3 {
		h = 3
	}
	inner := w - 2
	rows := h - 2
	if len(lines) > rows {
		lines = lines[:rows]
	}
	top := (rows - len(lines)) / 2

	grid := make([][]rune, 0, h)
	grid = append(grid, []rune("╭"+strings.Repeat("─", inner)+"╮"))
	for r := 0; r < rows; r++ {
		text := ""
		if i := r - top; i >= 0 && i < len(lines) {
			text = lines[i]
		}
		grid = append(grid, []rune("│"+centerCells(text, inner)+"│"))
	}
	grid = append(grid, []rune("╰"+strings.Repeat("─", inner)+"╯"))
	return grid
}

func centerCells(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	n := len([]rune(s))
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-n-pad)
}
