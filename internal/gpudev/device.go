// Package gpudev acquires the GPU device shared by the GPU rendering
// backends. It wraps the wgpu HAL Vulkan path and supports borrowing an
// externally owned device from a gpucontext.DeviceProvider so an
// application embedding the renderer in a larger GPU pipeline does not
// end up with two devices.
package gpudev

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Register the Vulkan HAL backend via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device bundles a HAL device and queue with their ownership: devices
// opened by Open are destroyed on Close, borrowed devices are not.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	shared   bool
}

// Open creates an instance, picks an adapter (preferring a real GPU
// over software implementations) and opens a device on it.
func Open() (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("gpudev: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpudev: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("gpudev: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpudev: open device: %w", err)
	}
	return &Device{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
	}, nil
}

// FromProvider borrows the HAL device and queue from a shared provider.
// The provider must expose the native HAL handles through HalDevice and
// HalQueue; gogpu render contexts do.
func FromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("gpudev: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("gpudev: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("gpudev: provider HalQueue is not hal.Queue")
	}
	return &Device{device: device, queue: queue, shared: true}, nil
}

// HAL returns the underlying device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) {
	return d.device, d.queue
}

// Shared reports whether the device is externally owned.
func (d *Device) Shared() bool { return d.shared }

// Close destroys owned resources. Borrowed devices are left alone.
func (d *Device) Close() {
	if d.shared {
		d.device = nil
		d.queue = nil
		return
	}
	if d.device != nil {
		d.device.Destroy()
		d.device = nil
	}
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	d.queue = nil
}

var (
	probeOnce sync.Once
	probeOK   bool
)

// Available probes once for a usable GPU adapter. The probe creates and
// immediately destroys an instance; the result is cached for the
// process lifetime.
func Available() bool {
	probeOnce.Do(func() {
		backend, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return
		}
		instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
		if err != nil {
			return
		}
		defer instance.Destroy()
		probeOK = len(instance.EnumerateAdapters(nil)) > 0
	})
	return probeOK
}
