package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liveframe/internal/geom"
	"liveframe/internal/mode"
	"liveframe/internal/sim"
	"liveframe/internal/visibility"
)

func TestRender_Layers(t *testing.T) {
	s := scene{
		screen: geom.XYWH(0, 0, 100, 100),
		windows: []sim.Window{
			{Handle: 1, Title: "Editor", Bounds: geom.XYWH(0, 0, 50, 50)},
			{Handle: 9, Bounds: geom.XYWH(50, 50, 50, 50)},
		},
		overlay: 9,
		chrome:  visibility.ChromeFor(mode.Edit, true),
		pointer: geom.Point{X: 95, Y: 5},
	}

	grid := render(s, 10, 10)
	require.Len(t, grid, 10)

	assert.Equal(t, "#####....@", grid[0])
	assert.Equal(t, "#EEE#.....", grid[1])
	assert.Equal(t, ".....=====", grid[5])
	assert.Equal(t, ".....=░░░=", grid[6])
}

func TestRender_TransparentOverlayShowsDesktop(t *testing.T) {
	s := scene{
		screen: geom.XYWH(0, 0, 100, 100),
		windows: []sim.Window{
			{Handle: 1, Title: "Browser", Bounds: geom.XYWH(0, 0, 100, 100)},
			{Handle: 9, Bounds: geom.XYWH(20, 20, 60, 60)},
		},
		overlay:  9,
		chrome:   visibility.ChromeFor(mode.Live, true),
		hasFrame: true,
		pointer:  geom.Point{X: -1, Y: -1},
	}

	grid := render(s, 10, 10)

	assert.Equal(t, "#B++++++B#", grid[2])
	assert.Equal(t, "#B+BBBB+B#", grid[3])
}

func TestRender_Degenerate(t *testing.T) {
	assert.Nil(t, render(scene{}, 10, 10))
	assert.Nil(t, render(scene{screen: geom.XYWH(0, 0, 10, 10)}, 0, 5))
}
