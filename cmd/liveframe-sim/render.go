package main

import (
	"strings"

	"liveframe/internal/geom"
	"liveframe/internal/sim"
	"liveframe/internal/visibility"
)

// scene is everything drawn on the desktop grid.
type scene struct {
	screen   geom.Rect
	windows  []sim.Window // bottom of the z-order first
	overlay  uintptr
	chrome   visibility.Chrome
	hasFrame bool
	pointer  geom.Point
}

// render draws the scene scaled into a cols x rows character grid. Ordinary
// windows are filled with the first letter of their title; the overlay is
// drawn by its chrome so opacity and frames are visible.
func render(s scene, cols, rows int) []string {
	if cols <= 0 || rows <= 0 || s.screen.Empty() {
		return nil
	}

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(".", cols))
	}

	toCell := func(x, y int) (int, int) {
		cx := (x - s.screen.Left) * cols / s.screen.Width()
		cy := (y - s.screen.Top) * rows / s.screen.Height()
		return cx, cy
	}

	fillRect := func(r geom.Rect, fill func(cx, cy int, edge bool) rune) {
		x0, y0 := toCell(r.Left, r.Top)
		x1, y1 := toCell(r.Right-1, r.Bottom-1)
		for cy := max(y0, 0); cy <= min(y1, rows-1); cy++ {
			for cx := max(x0, 0); cx <= min(x1, cols-1); cx++ {
				edge := cx == x0 || cx == x1 || cy == y0 || cy == y1
				if ch := fill(cx, cy, edge); ch != 0 {
					grid[cy][cx] = ch
				}
			}
		}
	}

	for _, w := range s.windows {
		if w.Handle == s.overlay {
			continue
		}
		letter := '?'
		if w.Title != "" {
			letter = []rune(w.Title)[0]
		}
		fillRect(w.Bounds, func(_, _ int, edge bool) rune {
			if edge {
				return '#'
			}
			return letter
		})
	}

	for _, w := range s.windows {
		if w.Handle != s.overlay {
			continue
		}
		fillRect(w.Bounds, func(_, _ int, edge bool) rune {
			switch {
			case edge && s.chrome.Border == visibility.BorderResizable:
				return '='
			case edge:
				return '+'
			case s.chrome.Opacity == 0:
				return 0
			case s.hasFrame:
				return '▒'
			}
			return '░'
		})
	}

	px, py := toCell(s.pointer.X, s.pointer.Y)
	if px >= 0 && px < cols && py >= 0 && py < rows {
		grid[py][px] = '@'
	}

	out := make([]string, rows)
	for i, row := range grid {
		out[i] = string(row)
	}
	return out
}
