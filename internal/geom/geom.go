// Package geom holds the integer screen geometry shared by the follow
// algorithms and the platform layers.
package geom

// Point is a screen position in physical pixels.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Rect is a screen rectangle stored edge-wise, the way Win32 RECT is.
// Right and Bottom are exclusive.
type Rect struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// Edges holds a per-edge delta between two rectangles.
type Edges struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

// XYWH builds a Rect from an origin and a size.
func XYWH(x, y, w, h int) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() int  { return r.Right - r.Left }
func (r Rect) Height() int { return r.Bottom - r.Top }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains reports whether p lies inside r. Edges are inclusive on both
// sides so a pointer resting on the right or bottom border counts as inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Moved returns r translated so that its top-left corner is at (x, y).
func (r Rect) Moved(x, y int) Rect {
	return XYWH(x, y, r.Width(), r.Height())
}

// Center returns the centre point, rounded towards the top-left.
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width()/2, Y: r.Top + r.Height()/2}
}

// Sub returns the per-edge difference r - o.
func (r Rect) Sub(o Rect) Edges {
	return Edges{
		Left:   r.Left - o.Left,
		Top:    r.Top - o.Top,
		Right:  r.Right - o.Right,
		Bottom: r.Bottom - o.Bottom,
	}
}

// Add applies a per-edge delta.
func (r Rect) Add(e Edges) Rect {
	return Rect{
		Left:   r.Left + e.Left,
		Top:    r.Top + e.Top,
		Right:  r.Right + e.Right,
		Bottom: r.Bottom + e.Bottom,
	}
}

// Clamp limits v to [lo, hi]. When hi < lo the range is degenerate and lo
// wins, which pins oversized windows to the screen origin.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ClampInto moves r, keeping its size, so that it lies inside bounds.
func (r Rect) ClampInto(bounds Rect) Rect {
	x := Clamp(r.Left, bounds.Left, bounds.Right-r.Width())
	y := Clamp(r.Top, bounds.Top, bounds.Bottom-r.Height())
	return r.Moved(x, y)
}
