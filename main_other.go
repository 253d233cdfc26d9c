//go:build !windows

package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var errUnsupportedPlatform = errors.New("liveframe needs the Windows desktop; use liveframe-sim elsewhere")

// startPlatform always fails on non-Windows platforms
func startPlatform(ctx context.Context, logger *zap.Logger) (*platform, error) {
	return nil, errUnsupportedPlatform
}
