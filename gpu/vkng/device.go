package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/bringup/gpu"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

type Device struct {
	device             core1_0.Device
	swapchainExtension khr_swapchain.Extension
}

func (d *Device) Handle() core1_0.Device {
	return d.device
}

// Queue returns queue 0 of family as a core1_0.Queue.
func (d *Device) Queue(family int) gpu.Queue {
	return d.device.GetQueue(family, 0)
}

func (d *Device) CreateSwapchain(surface gpu.Surface, config gpu.SwapchainConfig) (gpu.Swapchain, error) {
	target, ok := surface.(*Surface)
	if !ok {
		return nil, errors.New("surface was not created by vkng")
	}

	if d.swapchainExtension == nil {
		d.swapchainExtension = khr_swapchain.CreateExtensionFromDevice(d.device)
	}

	info := khr_swapchain.SwapchainCreateInfo{
		Surface: target.surface,

		MinImageCount:    config.ImageCount,
		ImageFormat:      config.Format.Format,
		ImageColorSpace:  config.Format.ColorSpace,
		ImageExtent:      config.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   config.SharingMode,
		QueueFamilyIndices: config.QueueFamilyIndices,

		PreTransform:   config.PreTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    config.PresentMode,
		Clipped:        true,
	}
	if old, ok := config.OldSwapchain.(*Swapchain); ok && old != nil {
		info.OldSwapchain = old.swapchain
	}

	swapchain, _, err := d.swapchainExtension.CreateSwapchain(d.device, nil, info)
	if err != nil {
		return nil, err
	}
	return &Swapchain{swapchain: swapchain}, nil
}

func (d *Device) CreateImageView(image gpu.Image, info core1_0.ImageViewCreateInfo) (gpu.ImageView, error) {
	handle, ok := image.(core1_0.Image)
	if !ok {
		return nil, errors.Newf("image %v was not created by vkng", image)
	}
	info.Image = handle

	view, _, err := d.device.CreateImageView(nil, info)
	if err != nil {
		return nil, err
	}
	return &ImageView{view: view}, nil
}

func (d *Device) Destroy() {
	if d.device != nil {
		d.device.Destroy(nil)
		d.device = nil
	}
}

type Swapchain struct {
	swapchain khr_swapchain.Swapchain
}

func (s *Swapchain) Handle() khr_swapchain.Swapchain {
	return s.swapchain
}

// Images returns the swapchain's core1_0.Image handles in presentation order.
func (s *Swapchain) Images() ([]gpu.Image, error) {
	swapchainImages, _, err := s.swapchain.SwapchainImages()
	if err != nil {
		return nil, err
	}

	images := make([]gpu.Image, 0, len(swapchainImages))
	for _, image := range swapchainImages {
		images = append(images, image)
	}
	return images, nil
}

func (s *Swapchain) Destroy() {
	if s.swapchain != nil {
		s.swapchain.Destroy(nil)
		s.swapchain = nil
	}
}

type ImageView struct {
	view core1_0.ImageView
}

func (v *ImageView) Handle() core1_0.ImageView {
	return v.view
}

func (v *ImageView) Destroy() {
	if v.view != nil {
		v.view.Destroy(nil)
		v.view = nil
	}
}
