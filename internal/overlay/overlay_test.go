package overlay

import (
	"testing"

	"github.com/ziadkadry99/techtree/internal/catalogue"
)

func rect(x, y, w, h float64) catalogue.Rect {
	return catalogue.Rect{X: x, Y: y, Width: w, Height: h}
}

func TestPlace(t *testing.T) {
	tests := []struct {
		name   string
		anchor catalogue.Rect
		size   Size
		vp     Viewport
		want   Placement
	}{
		{
			name:   "below fits",
			anchor: rect(500, 100, 60, 40),
			size:   Size{Width: 300, Height: 200},
			vp:     Viewport{Width: 1200, Height: 800},
			want:   Placement{Top: 140, Left: 200, Strategy: Below},
		},
		{
			name:   "below fits exactly",
			anchor: rect(500, 100, 60, 40),
			size:   Size{Width: 300, Height: 660},
			vp:     Viewport{Width: 1200, Height: 800},
			want:   Placement{Top: 140, Left: 200, Strategy: Below},
		},
		{
			name:   "above when below overflows",
			anchor: rect(500, 700, 60, 40),
			size:   Size{Width: 300, Height: 200},
			vp:     Viewport{Width: 1200, Height: 800},
			want:   Placement{Top: 500, Left: 200, Strategy: Above},
		},
		{
			name:   "above at zero",
			anchor: rect(500, 200, 60, 40),
			size:   Size{Width: 300, Height: 200},
			vp:     Viewport{Width: 1200, Height: 300},
			want:   Placement{Top: 0, Left: 200, Strategy: Above},
		},
		{
			name:   "clamped to scroll offset",
			anchor: rect(500, 100, 60, 40),
			size:   Size{Width: 300, Height: 200},
			vp:     Viewport{Width: 1200, Height: 800, ScrollX: 350},
			want:   Placement{Top: 140, Left: 350, Strategy: Below},
		},
		{
			name:   "negative left clamped",
			anchor: rect(100, 100, 60, 40),
			size:   Size{Width: 300, Height: 200},
			vp:     Viewport{Width: 1200, Height: 800},
			want:   Placement{Top: 140, Left: 0, Strategy: Below},
		},
		{
			name:   "side left of anchor",
			anchor: rect(500, 100, 60, 40),
			size:   Size{Width: 300, Height: 500},
			vp:     Viewport{Width: 1200, Height: 400},
			want:   Placement{Top: 0, Left: 200, Strategy: Side, Unchecked: true},
		},
		{
			name:   "side flips right when no room on the left",
			anchor: rect(100, 100, 60, 40),
			size:   Size{Width: 300, Height: 500},
			vp:     Viewport{Width: 1200, Height: 400},
			want:   Placement{Top: 0, Left: 160, Strategy: Side, Unchecked: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(tt.anchor, tt.size, tt.vp)
			if got != tt.want {
				t.Errorf("Place = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlaceFallbackOrdering(t *testing.T) {
	size := Size{Width: 120, Height: 180}
	vp := Viewport{Width: 1000, Height: 600}

	for y := 0.0; y <= 600; y += 20 {
		anchor := rect(400, y, 50, 30)
		got := Place(anchor, size, vp)

		belowFits := anchor.Y+anchor.Height+size.Height <= vp.Height
		aboveFits := anchor.Y-size.Height >= 0

		switch {
		case belowFits:
			if got.Strategy != Below {
				t.Errorf("y=%v: got %s, want below", y, got.Strategy)
			}
		case aboveFits:
			if got.Strategy != Above || got.Top < 0 {
				t.Errorf("y=%v: got %+v, want a valid above placement", y, got)
			}
		default:
			if got.Strategy != Side || !got.Unchecked {
				t.Errorf("y=%v: got %+v, want unchecked side placement", y, got)
			}
		}
	}
}
