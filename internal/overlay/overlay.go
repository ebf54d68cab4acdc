// Package overlay decides where the entity detail popup is drawn relative
// to its anchor node inside a scrollable diagram container.
package overlay

import "github.com/ziadkadry99/techtree/internal/catalogue"

// Strategy names the placement that was chosen.
type Strategy string

const (
	Below Strategy = "below"
	Above Strategy = "above"
	// Side places the popup at the top of the container, left of the anchor
	// or, when that does not fit, to its right.
	Side Strategy = "side"
)

// Size is the measured size of the popup.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport describes the diagram container. Height bounds the popup
// vertically; ScrollX is the current horizontal scroll offset.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	ScrollX float64 `json:"scrollX"`
}

// Placement is the chosen position of the popup.
type Placement struct {
	Top      float64  `json:"top"`
	Left     float64  `json:"left"`
	Strategy Strategy `json:"strategy"`
	// Unchecked is set for the Side strategy, which is accepted without any
	// vertical bounds test.
	Unchecked bool `json:"unchecked"`
}

// Place tries Below, then Above, then Side and returns the first placement
// whose acceptance test passes. Side always passes.
func Place(anchor catalogue.Rect, size Size, vp Viewport) Placement {
	left := clampLeft(anchor.X-size.Width, vp)

	if top := anchor.Y + anchor.Height; top+size.Height <= vp.Height {
		return Placement{Top: top, Left: left, Strategy: Below}
	}
	if top := anchor.Y - size.Height; top >= 0 {
		return Placement{Top: top, Left: left, Strategy: Above}
	}

	// Clamping pushed the popup over the anchor: there is no room on the
	// left, so go right.
	if left+size.Width > anchor.X {
		left = anchor.X + anchor.Width
	}
	return Placement{Top: 0, Left: left, Strategy: Side, Unchecked: true}
}

// clampLeft resets left to the scroll offset when it is negative or would
// start before the visible part of the container.
func clampLeft(left float64, vp Viewport) float64 {
	if left < 0 || left < vp.ScrollX {
		return vp.ScrollX
	}
	return left
}
