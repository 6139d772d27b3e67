package tui

import (
	"math"
	"strings"

	"github.com/jask/greetcard/internal/interaction"
	"github.com/jask/greetcard/internal/intro"
)

// A cell grid is coarse, so tilt and lean are exaggerated when projected.
const (
	shearPerDegree = 0.25
	liftPerDegree  = 0.2
)

// projection maps a face onto the canvas.
type projection struct {
	scaleX float64
	scaleY float64
	// shear shifts each row sideways by this many columns per row of
	// distance from the middle row.
	shear float64
	// lift moves the card up, in rows.
	lift int
	face interaction.Face
}

func projectionFor(t interaction.Transform, v intro.Visual) projection {
	rad := t.RotationY * math.Pi / 180
	p := projection{
		scaleX: math.Abs(math.Cos(rad)),
		scaleY: 1,
		shear:  t.Lean * shearPerDegree,
		lift:   int(math.Round(t.TiltX * liftPerDegree)),
		face:   interaction.FaceFor(t.RotationY),
	}
	if !v.WidthExpanded {
		p.scaleX = 0
	}
	if !v.HeightExpanded {
		p.scaleY = 0
	}
	return p
}

// canvasSize is the fixed area a w x h card can occupy under any transform
// the controller allows.
func canvasSize(w, h int, maxTilt float64) (int, int) {
	maxShear := math.Abs(interaction.Lean(maxTilt)) * shearPerDegree * float64(h) / 2
	maxLift := math.Abs(maxTilt) * liftPerDegree
	return w + 2*int(math.Ceil(maxShear)), h + 2*int(math.Ceil(maxLift))
}

// project draws grid on a canvasW x canvasH canvas.
func project(grid [][]rune, p projection, canvasW, canvasH int) []string {
	canvas := make([][]rune, canvasH)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", canvasW))
	}
	srcH := len(grid)
	if srcH == 0 || canvasW == 0 {
		return joinRows(canvas)
	}
	srcW := len(grid[0])

	outW := max(1, int(math.Round(float64(srcW)*p.scaleX)))
	outH := max(1, int(math.Round(float64(srcH)*p.scaleY)))
	top := (canvasH-outH)/2 - p.lift
	mid := float64(outH-1) / 2

	for i := 0; i < outH; i++ {
		y := top + i
		if y < 0 || y >= canvasH {
			continue
		}
		left := (canvasW-outW)/2 + int(math.Round(p.shear*(float64(i)-mid)))
		srcRow := grid[(2*i+1)*srcH/(2*outH)]
		for j := 0; j < outW; j++ {
			x := left + j
			if x < 0 || x >= canvasW {
				continue
			}
			canvas[y][x] = sample(srcRow, srcW, outW, outH, j)
		}
	}
	return joinRows(canvas)
}

// sample picks the source cell for output column j. A card turned almost
// edge-on or collapsed is drawn as a line.
func sample(row []rune, srcW, outW, outH, j int) rune {
	switch {
	case outW <= 2 && outH <= 1:
		return '·'
	case outW <= 2:
		return '│'
	case outH <= 1:
		return '─'
	}
	return row[(2*j+1)*srcW/(2*outW)]
}

func joinRows(canvas [][]rune) []string {
	out := make([]string, len(canvas))
	for i, r := range canvas {
		out[i] = string(r)
	}
	return out
}
