package tui

import (
	"strings"
	"testing"

	"github.com/jask/greetcard/internal/interaction"
	"github.com/jask/greetcard/internal/intro"
)

var expanded = intro.Visual{HeightExpanded: true, WidthExpanded: true}

func gridStrings(g [][]rune) []string {
	out := make([]string, len(g))
	for i, r := range g {
		out[i] = string(r)
	}
	return out
}

func TestBoxCentresContent(t *testing.T) {
	got := gridStrings(box([]string{"HI"}, 6, 3))
	want := []string{"╭────╮", "│ HI │", "╰────╯"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProjectIdentityAtRest(t *testing.T) {
	grid := box([]string{"JANE"}, 8, 3)
	p := projectionFor(interaction.Transform{}, expanded)
	got := project(grid, p, 8, 3)
	want := gridStrings(grid)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProjectionNarrowsWithRotation(t *testing.T) {
	p := projectionFor(interaction.Transform{RotationY: 60}, expanded)
	if p.scaleX < 0.49 || p.scaleX > 0.51 {
		t.Fatalf("scaleX at 60 = %v, want 0.5", p.scaleX)
	}
	if p.face != interaction.FaceFront {
		t.Fatalf("face at 60 = %v, want front", p.face)
	}

	p = projectionFor(interaction.Transform{RotationY: 180}, expanded)
	if p.face != interaction.FaceBack {
		t.Fatalf("face at 180 = %v, want back", p.face)
	}
	if p.scaleX < 0.99 {
		t.Fatalf("scaleX at 180 = %v, want 1", p.scaleX)
	}

	grid := box([]string{"ABCDEF"}, 10, 3)
	rows := project(grid, projectionFor(interaction.Transform{RotationY: 60}, expanded), 10, 3)
	if w := len(strings.TrimSpace(rows[0])); w == 0 || len([]rune(strings.TrimSpace(rows[0]))) != 5 {
		t.Fatalf("half-turned row = %q, want 5 cells", rows[0])
	}
}

func TestProjectEdgeOnAndCollapsed(t *testing.T) {
	grid := box([]string{"X"}, 8, 5)

	rows := project(grid, projectionFor(interaction.Transform{RotationY: 90}, expanded), 8, 5)
	for i, r := range rows {
		if strings.TrimSpace(r) != "│" {
			t.Fatalf("edge-on row %d = %q, want a single bar", i, r)
		}
	}

	rows = project(grid, projectionFor(interaction.Transform{}, intro.Visual{}), 8, 5)
	if got := strings.TrimSpace(strings.Join(rows, "")); got != "·" {
		t.Fatalf("collapsed card = %q, want a dot", got)
	}

	rows = project(grid, projectionFor(interaction.Transform{}, intro.Visual{HeightExpanded: true}), 8, 5)
	for i, r := range rows {
		if strings.TrimSpace(r) != "│" {
			t.Fatalf("height-only row %d = %q, want a single bar", i, r)
		}
	}
}

func TestProjectShearsWithLean(t *testing.T) {
	grid := box([]string{"X"}, 6, 9)
	p := projectionFor(interaction.Transform{TiltX: 10, Lean: 2}, expanded)
	if p.lift != 2 {
		t.Fatalf("lift = %d, want 2", p.lift)
	}
	cw, ch := canvasSize(6, 9, 10)
	rows := project(grid, p, cw, ch)
	first, last := -1, -1
	for _, r := range rows {
		if strings.ContainsRune(r, '╭') {
			first = strings.IndexRune(r, '╭')
		}
		if strings.ContainsRune(r, '╰') {
			last = strings.IndexRune(r, '╰')
		}
	}
	if first < 0 || last < 0 {
		t.Fatalf("corners clipped:\n%s", strings.Join(rows, "\n"))
	}
	if first >= last {
		t.Fatalf("top corner at %d should sit left of bottom corner at %d", first, last)
	}
}

func TestBuildFacesPlaceholderCode(t *testing.T) {
	f := buildFaces(faceContent{Title: "SEASON'S GREETINGS", Barcode: []string{"1256"}}, 30, 9)
	front := strings.Join(gridStrings(f.front), "\n")
	if !strings.Contains(front, placeholderCode) {
		t.Fatalf("front face missing placeholder code:\n%s", front)
	}
	back := strings.Join(gridStrings(f.back), "\n")
	if !strings.Contains(back, "1256") {
		t.Fatalf("back face missing barcode text:\n%s", back)
	}
	if len(f.front) != 9 || len(f.back) != 9 {
		t.Fatalf("face heights = %d/%d, want 9", len(f.front), len(f.back))
	}
}

func TestOverlayAt(t *testing.T) {
	base := "..........\n..........\n.........."
	got := overlayAt(base, "ab\ncd", 3, 1, 10)
	want := "..........\n...ab.....\n...cd....."
	if got != want {
		t.Fatalf("overlayAt =\n%s\nwant\n%s", got, want)
	}
	if got := overlayAt("....", "xy", 1, 5, 4); got != "...." {
		t.Fatalf("rows below base should be dropped, got %q", got)
	}
}
