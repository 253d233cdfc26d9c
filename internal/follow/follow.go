// Package follow computes where the overlay goes next for each follow mode.
//
// Everything here is pure: callers feed in the current bounds, the screen
// and either a window sample or a pointer position and get back the new
// bounds. The overlay service owns applying them.
package follow

import (
	"liveframe/internal/geom"
	"liveframe/internal/mode"
)

// Sample is what one poll tick learns about the tracked window.
type Sample struct {
	Target uintptr
	// TargetBounds are the target's external (shadow-excluded) bounds.
	TargetBounds geom.Rect
	// Gap is the overlay's own logical minus external bounds.
	Gap geom.Edges
}

// Gap is the per-edge border/shadow gap of a window: logical - external.
func Gap(logical, external geom.Rect) geom.Edges {
	return logical.Sub(external)
}

// FitToWindow maps a target's external bounds onto the logical rectangle the
// overlay has to be positioned at so that its own external bounds match.
func FitToWindow(s Sample) geom.Rect {
	return s.TargetBounds.Add(s.Gap)
}

// Center places the overlay's centre on p, clamped to the screen.
func Center(bounds geom.Rect, p geom.Point, screen geom.Rect) geom.Rect {
	x := geom.Clamp(p.X-bounds.Width()/2, screen.Left, screen.Right-bounds.Width())
	y := geom.Clamp(p.Y-bounds.Height()/2, screen.Top, screen.Bottom-bounds.Height())
	return bounds.Moved(x, y)
}

// FrameBound treats the overlay as a cage around the pointer: when p leaves
// the rectangle the crossed edge slides to p, dragging the opposite edge by
// the same delta. Inside the cage nothing moves.
func FrameBound(bounds geom.Rect, p geom.Point, screen geom.Rect) geom.Rect {
	x, y := bounds.Left, bounds.Top
	w, h := bounds.Width(), bounds.Height()

	if p.X < x {
		x = p.X
	}
	if p.X > x+w {
		x = p.X - w
	}
	if p.Y < y {
		y = p.Y
	}
	if p.Y > y+h {
		y = p.Y - h
	}

	return bounds.Moved(x, y).ClampInto(screen)
}

// Zoom grows (negative delta) or shrinks (positive delta) the overlay around
// its centre, keeping the aspect ratio. Delta is a raw wheel delta, so one
// notch (120) changes the height by 24 pixels.
func Zoom(bounds geom.Rect, delta int) geom.Rect {
	if bounds.Height() == 0 {
		return bounds
	}
	aspect := float64(bounds.Width()) / float64(bounds.Height())
	dw := float64(delta) * aspect / 10
	dh := float64(delta) / 10

	next := geom.XYWH(
		int(float64(bounds.Left)+dw),
		int(float64(bounds.Top)+dh),
		int(float64(bounds.Width())-dw*2),
		int(float64(bounds.Height())-dh*2),
	)
	if next.Empty() {
		return bounds
	}
	return next
}

// WheelNotch is the wheel delta of one detent.
const WheelNotch = 120

// WheelDelta converts a DOM wheel deltaY into a Win32 wheel delta. The two
// use opposite signs: turning the wheel away from the user gives a negative
// deltaY but a positive delta. Each event counts as one notch, since the
// browser's pixel scale varies by device.
func WheelDelta(deltaY float64) int {
	switch {
	case deltaY < 0:
		return WheelNotch
	case deltaY > 0:
		return -WheelNotch
	}
	return 0
}

// OnPointer dispatches a pointer sample to the algorithm for m. The second
// result is false when m does not react to the pointer.
func OnPointer(m mode.Follow, bounds geom.Rect, p geom.Point, screen geom.Rect) (geom.Rect, bool) {
	switch m {
	case mode.FollowMouseCenter:
		return Center(bounds, p, screen), true
	case mode.FollowMouseFrameBound:
		return FrameBound(bounds, p, screen), true
	}
	return bounds, false
}
