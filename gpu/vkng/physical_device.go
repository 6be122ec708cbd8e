package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bringup/gpu"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
)

type PhysicalDevice struct {
	device     core1_0.PhysicalDevice
	name       string
	deviceType core1_0.PhysicalDeviceType
	apiVersion common.APIVersion
}

func newPhysicalDevice(device core1_0.PhysicalDevice, logger logrus.FieldLogger) *PhysicalDevice {
	physical := &PhysicalDevice{
		device:     device,
		name:       "unknown device",
		deviceType: core1_0.PhysicalDeviceTypeOther,
	}

	properties, err := device.Properties()
	if err != nil {
		logger.WithError(err).Warn("could not get physical device properties")
		return physical
	}

	physical.name = properties.DriverName
	physical.deviceType = properties.DriverType
	physical.apiVersion = properties.APIVersion
	return physical
}

func (d *PhysicalDevice) Handle() core1_0.PhysicalDevice {
	return d.device
}

func (d *PhysicalDevice) Name() string {
	return d.name
}

func (d *PhysicalDevice) Type() core1_0.PhysicalDeviceType {
	return d.deviceType
}

func (d *PhysicalDevice) APIVersion() common.APIVersion {
	return d.apiVersion
}

func (d *PhysicalDevice) QueueFamilies() []core1_0.QueueFamilyProperties {
	var families []core1_0.QueueFamilyProperties
	for _, family := range d.device.QueueFamilyProperties() {
		families = append(families, core1_0.QueueFamilyProperties{
			QueueFlags: family.QueueFlags,
			QueueCount: family.QueueCount,
		})
	}
	return families
}

func (d *PhysicalDevice) Extensions() ([]string, error) {
	extensions, _, err := d.device.EnumerateDeviceExtensionProperties()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(extensions))
	for name := range extensions {
		names = append(names, name)
	}
	return names, nil
}

func (d *PhysicalDevice) CreateDevice(info core1_0.DeviceCreateInfo) (gpu.Device, error) {
	device, _, err := d.device.CreateDevice(nil, info)
	if err != nil {
		return nil, err
	}
	return &Device{device: device}, nil
}

func physicalHandle(device gpu.PhysicalDevice) (core1_0.PhysicalDevice, error) {
	physical, ok := device.(*PhysicalDevice)
	if !ok {
		return nil, errors.Newf("physical device %s was not created by vkng", device.Name())
	}
	return physical.device, nil
}
