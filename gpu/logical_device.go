package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

const queuePriority = float32(1.0)

// QueueCreateInfos builds one request per distinct family, each for a single
// queue at full priority.
func QueueCreateInfos(indices CompleteIndices) []core1_0.DeviceQueueCreateInfo {
	var infos []core1_0.DeviceQueueCreateInfo
	for _, family := range indices.Unique() {
		infos = append(infos, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{queuePriority},
		})
	}
	return infos
}

// LogicalDevice is an opened device together with the queue for each role.
// The queues are the same object when the families coincide.
type LogicalDevice struct {
	Device        Device
	GraphicsQueue Queue
	PresentQueue  Queue
}

// CreateLogicalDevice opens physical with the required extensions enabled and
// fetches queue 0 of each role's family.
func CreateLogicalDevice(physical PhysicalDevice, indices CompleteIndices, required []string) (LogicalDevice, error) {
	available, err := physical.Extensions()
	if err != nil {
		return LogicalDevice{}, markf(err, ErrDeviceCreationFailed, "enumerate extensions of %s", physical.Name())
	}

	device, err := physical.CreateDevice(core1_0.DeviceCreateInfo{
		QueueCreateInfos:      QueueCreateInfos(indices),
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: EnabledDeviceExtensions(required, available),
	})
	if err != nil {
		return LogicalDevice{}, markf(err, ErrDeviceCreationFailed, "create device on %s", physical.Name())
	}
	if device == nil {
		return LogicalDevice{}, errors.Mark(errors.Newf("driver returned no device for %s", physical.Name()), ErrDeviceCreationFailed)
	}

	return LogicalDevice{
		Device:        device,
		GraphicsQueue: device.Queue(indices.Graphics),
		PresentQueue:  device.Queue(indices.Presentation),
	}, nil
}
