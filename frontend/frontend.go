// Package frontend embeds the render surface served by the desktop window.
package frontend

import "embed"

// Assets holds dist/, whose index.html draws frames and chrome badges and
// forwards mouse and keyboard input to the bound App methods.
//
//go:embed all:dist
var Assets embed.FS
