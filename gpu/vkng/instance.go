// Package vkng implements the gpu driver interfaces on vkngwrapper.
package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/bringup/gpu"
	"github.com/vkngwrapper/core/v2"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v2/khr_portability_enumeration"
)

type InstanceOptions struct {
	ApplicationName string
	// WindowExtensions are the instance extensions the window system needs
	// to create a surface. All of them must be available.
	WindowExtensions []string
	Validation       bool
	ValidationLayers []string
}

// Instance owns a Vulkan instance and, with validation on, its debug messenger.
type Instance struct {
	instance       core1_0.Instance
	debugMessenger ext_debug_utils.DebugUtilsMessenger
	logger         logrus.FieldLogger
}

func debugMessengerOptions(logger logrus.FieldLogger) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			entry := logger.WithFields(logrus.Fields{
				"type":     msgType,
				"severity": severity,
			})
			if severity&ext_debug_utils.SeverityError != 0 {
				entry.Error(data.Message)
			} else {
				entry.Warn(data.Message)
			}
			return false
		},
	}
}

// CreateInstance creates the instance through loader. Failures are marked
// gpu.ErrInstanceCreationFailed.
func CreateInstance(loader core.Loader, options InstanceOptions, logger logrus.FieldLogger) (*Instance, error) {
	info := core1_0.InstanceCreateInfo{
		ApplicationName:    options.ApplicationName,
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := loader.AvailableExtensions()
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "enumerate instance extensions"), gpu.ErrInstanceCreationFailed)
	}

	for _, ext := range options.WindowExtensions {
		_, hasExt := extensions[ext]
		if !hasExt {
			return nil, errors.Mark(errors.Newf("missing window extension %s", ext), gpu.ErrInstanceCreationFailed)
		}
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext)
	}

	if options.Validation {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, ext_debug_utils.ExtensionName)
	}

	_, enumerationSupported := extensions[khr_portability_enumeration.ExtensionName]
	if enumerationSupported {
		info.EnabledExtensionNames = append(info.EnabledExtensionNames, khr_portability_enumeration.ExtensionName)
		info.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if options.Validation {
		layers, _, err := loader.AvailableLayers()
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "enumerate instance layers"), gpu.ErrInstanceCreationFailed)
		}

		for _, layer := range options.ValidationLayers {
			_, hasValidation := layers[layer]
			if !hasValidation {
				return nil, errors.Mark(errors.Newf("validation layer %s not available- install LunarG Vulkan SDK", layer), gpu.ErrInstanceCreationFailed)
			}
			info.EnabledLayerNames = append(info.EnabledLayerNames, layer)
		}

		info.Next = debugMessengerOptions(logger)
	}

	instance, _, err := loader.CreateInstance(nil, info)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "create instance"), gpu.ErrInstanceCreationFailed)
	}

	result := &Instance{instance: instance, logger: logger}
	if !options.Validation {
		return result, nil
	}

	debugLoader := ext_debug_utils.CreateExtensionFromInstance(instance)
	result.debugMessenger, _, err = debugLoader.CreateDebugUtilsMessenger(instance, nil, debugMessengerOptions(logger))
	if err != nil {
		instance.Destroy(nil)
		return nil, errors.Mark(errors.Wrap(err, "create debug messenger"), gpu.ErrInstanceCreationFailed)
	}

	return result, nil
}

func (i *Instance) Handle() core1_0.Instance {
	return i.instance
}

func (i *Instance) PhysicalDevices() ([]gpu.PhysicalDevice, error) {
	physicalDevices, _, err := i.instance.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	devices := make([]gpu.PhysicalDevice, 0, len(physicalDevices))
	for _, device := range physicalDevices {
		devices = append(devices, newPhysicalDevice(device, i.logger))
	}
	return devices, nil
}

// Destroy destroys the debug messenger and then the instance.
func (i *Instance) Destroy() {
	if i.debugMessenger != nil {
		i.debugMessenger.Destroy(nil)
		i.debugMessenger = nil
	}

	if i.instance != nil {
		i.instance.Destroy(nil)
		i.instance = nil
	}
}
