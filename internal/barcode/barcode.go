// Package barcode draws CODE128 barcodes with terminal block characters.
package barcode

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/boombuler/barcode/code128"
)

// Bars is an encoded barcode: one entry per module, true for a dark bar.
type Bars struct {
	Value   string
	Modules []bool
}

// Encode encodes value as CODE128.
func Encode(value string) (Bars, error) {
	if value == "" {
		return Bars{}, fmt.Errorf("encode barcode: empty value")
	}
	bc, err := code128.Encode(value)
	if err != nil {
		return Bars{}, fmt.Errorf("encode barcode %q: %w", value, err)
	}
	b := bc.Bounds()
	modules := make([]bool, 0, b.Dx())
	for x := b.Min.X; x < b.Max.X; x++ {
		g := color.GrayModel.Convert(bc.At(x, b.Min.Y)).(color.Gray)
		modules = append(modules, g.Y < 128)
	}
	return Bars{Value: value, Modules: modules}, nil
}

// Width is the rendered width in cells: two modules per cell.
func (b Bars) Width() int {
	return (len(b.Modules) + 1) / 2
}

// Lines renders height rows of bars followed by the encoded text centred
// under them.
func (b Bars) Lines(height int) []string {
	if height < 1 {
		height = 1
	}
	var row strings.Builder
	for i := 0; i < len(b.Modules); i += 2 {
		left := b.Modules[i]
		right := i+1 < len(b.Modules) && b.Modules[i+1]
		row.WriteRune(cell(left, right))
	}
	bar := row.String()

	lines := make([]string, 0, height+1)
	for i := 0; i < height; i++ {
		lines = append(lines, bar)
	}
	return append(lines, center(b.Value, b.Width()))
}

func cell(left, right bool) rune {
	switch {
	case left && right:
		return '█'
	case left:
		return '▌'
	case right:
		return '▐'
	default:
		return ' '
	}
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	pad := (width - n) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-n-pad)
}
