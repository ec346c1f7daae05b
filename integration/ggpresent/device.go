// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ggpresent

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/layered"
)

// ErrNilProvider is returned when a nil DeviceProvider is passed.
var ErrNilProvider = errors.New("ggpresent: nil DeviceProvider")

// ShareDevice hands the window's GPU device to gg's accelerator, if one is
// registered (import github.com/gogpu/gg/gpu), so layer surfaces render on
// the same device the presenter uploads to. Without an accelerator it does
// nothing.
func ShareDevice(provider gpucontext.DeviceProvider) error {
	if provider == nil {
		return ErrNilProvider
	}
	if err := gg.SetAcceleratorDeviceProvider(provider); err != nil {
		return fmt.Errorf("ggpresent: share device: %w", err)
	}
	info := provider.AdapterInfo()
	layered.Logger().Info("ggpresent: device shared",
		"adapter", info.Name, "accelerated", gg.Accelerator() != nil)
	return nil
}
