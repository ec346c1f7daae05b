//go:build gpu

package main

import (
	"github.com/gogpu/gg"
	_ "github.com/gogpu/gg/gpu" // GPU accelerator, falls back to CPU when unavailable
)

func init() {
	atExit = append(atExit, gg.CloseAccelerator)
}
