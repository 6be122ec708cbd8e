package gpu

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Suitability is the outcome of probing one physical device.
type Suitability struct {
	Indices           QueueFamilyIndices
	MissingExtensions []string
	SurfaceAdequate   bool
}

func (s Suitability) Suitable() bool {
	return s.Indices.IsComplete() && len(s.MissingExtensions) == 0 && s.SurfaceAdequate
}

// Reason describes why a device was rejected, or "" if it was not.
func (s Suitability) Reason() string {
	var reasons []string
	if !s.Indices.Graphics.Found() {
		reasons = append(reasons, "missing graphics queue")
	}
	if !s.Indices.Presentation.Found() {
		reasons = append(reasons, "missing presentation queue")
	}
	if len(s.MissingExtensions) > 0 {
		reasons = append(reasons, fmt.Sprintf("missing extensions: %v", s.MissingExtensions))
	} else if !s.SurfaceAdequate {
		reasons = append(reasons, "no surface formats or present modes")
	}
	return strings.Join(reasons, ", ")
}

// AssessDevice probes device against surface and the required extensions.
// Surface adequacy is only queried once the extension gate has passed, since
// the surface queries depend on swapchain support.
func AssessDevice(device PhysicalDevice, surface Surface, required []string) (Suitability, error) {
	var result Suitability

	indices, err := FindQueueFamilies(device, surface)
	if err != nil {
		return result, err
	}
	result.Indices = indices

	available, err := device.Extensions()
	if err != nil {
		return result, errors.Wrap(err, "enumerate device extensions")
	}
	result.MissingExtensions = MissingExtensions(required, available)

	if len(result.MissingExtensions) == 0 {
		support, err := QuerySwapchainSupport(device, surface)
		if err != nil {
			return result, err
		}
		result.SurfaceAdequate = support.Adequate()
	}

	return result, nil
}

// PickPhysicalDevice returns the first enumerated device that is suitable for
// rendering to surface. There is no ranking among suitable devices.
func PickPhysicalDevice(instance Instance, surface Surface, required []string, logger logrus.FieldLogger) (PhysicalDevice, CompleteIndices, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, CompleteIndices{}, markf(err, ErrNoDevicesFound, "enumerate physical devices")
	}
	if len(devices) == 0 {
		return nil, CompleteIndices{}, ErrNoDevicesFound
	}

	for _, device := range devices {
		deviceLog := logger.WithFields(logrus.Fields{
			"device":      device.Name(),
			"type":        device.Type().String(),
			"api_version": device.APIVersion().String(),
		})

		suitability, err := AssessDevice(device, surface, required)
		if err != nil {
			deviceLog.WithError(err).Warn("could not probe device")
			continue
		}
		if !suitability.Suitable() {
			deviceLog.WithField("reason", suitability.Reason()).Debug("device rejected")
			continue
		}

		indices, err := suitability.Indices.Complete()
		if err != nil {
			return nil, CompleteIndices{}, err
		}
		deviceLog.WithFields(logrus.Fields{
			"graphics_family": indices.Graphics,
			"present_family":  indices.Presentation,
		}).Info("selected physical device")
		return device, indices, nil
	}

	return nil, CompleteIndices{}, errors.Wrapf(ErrNoSuitableDevice, "checked %d devices", len(devices))
}
