// SPDX-License-Identifier: EPL-2.0

package director

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// Context owns the GPU device shared by the directors of a process. It is
// created on the control goroutine and passed explicitly; there is no global
// device.
type Context struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
}

// NewContext acquires a high-performance adapter and its default device.
func NewContext() (*Context, error) {
	instance := wgpu.CreateInstance(nil)

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}

	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}

	slog.Info("gpu device acquired")

	return &Context{
		instance: instance,
		adapter:  adapter,
		device:   device,
		queue:    device.GetQueue(),
	}, nil
}

// Release frees the device. Directors built on it must be released first.
func (c *Context) Release() {
	if c == nil {
		return
	}
	c.queue.Release()
	c.device.Release()
	c.adapter.Release()
	c.instance.Release()
}
