package gpu

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
)

// SwapchainSupport is what a device reports about presenting to a surface,
// captured once at negotiation time.
type SwapchainSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

// Adequate reports whether a swapchain could be created at all.
func (s SwapchainSupport) Adequate() bool {
	return s.Capabilities != nil && len(s.Formats) > 0 && len(s.PresentModes) > 0
}

func QuerySwapchainSupport(device PhysicalDevice, surface Surface) (SwapchainSupport, error) {
	var support SwapchainSupport
	var err error

	support.Capabilities, err = surface.Capabilities(device)
	if err != nil {
		return support, errors.Wrap(err, "query surface capabilities")
	}

	support.Formats, err = surface.Formats(device)
	if err != nil {
		return support, errors.Wrap(err, "query surface formats")
	}

	support.PresentModes, err = surface.PresentModes(device)
	if err != nil {
		return support, errors.Wrap(err, "query surface present modes")
	}

	return support, nil
}

// SwapchainConfig is the negotiated swapchain. It is built once and not
// modified afterwards.
type SwapchainConfig struct {
	Format      khr_surface.SurfaceFormat
	PresentMode khr_surface.PresentMode
	Extent      core1_0.Extent2D
	ImageCount  int

	SharingMode        core1_0.SharingMode
	QueueFamilyIndices []int

	PreTransform khr_surface.SurfaceTransformFlags

	// OldSwapchain is the chain being replaced. Always nil until swapchain
	// recreation exists.
	OldSwapchain Swapchain
}

// ChooseSurfaceFormat prefers 8-bit BGRA sRGB with the sRGB nonlinear color
// space wherever it appears, and otherwise takes the first reported format.
// ok is false only when formats is empty.
func ChooseSurfaceFormat(formats []khr_surface.SurfaceFormat) (format khr_surface.SurfaceFormat, ok bool) {
	if len(formats) == 0 {
		return khr_surface.SurfaceFormat{}, false
	}

	for _, format := range formats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format, true
		}
	}

	return formats[0], true
}

// ChoosePresentMode prefers mailbox and falls back to FIFO, which every
// implementation must support.
func ChoosePresentMode(modes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, mode := range modes {
		if mode == khr_surface.PresentModeMailbox {
			return mode
		}
	}

	return khr_surface.PresentModeFIFO
}

func undefinedExtent(extent core1_0.Extent2D) bool {
	return extent.Width == -1 || int64(extent.Width) == math.MaxUint32
}

func clamp(value, low, high int) int {
	if value < low {
		value = low
	}
	if value > high {
		value = high
	}
	return value
}

// ChooseExtent uses the surface's current extent unless the surface leaves it
// undefined, in which case width and height are clamped into the supported
// range one axis at a time.
func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, width, height int) core1_0.Extent2D {
	if !undefinedExtent(capabilities.CurrentExtent) {
		return capabilities.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image beyond the minimum. A maximum of zero
// means there is no upper bound.
func ChooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	count := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && count > capabilities.MaxImageCount {
		count = capabilities.MaxImageCount
	}
	return count
}

// ChooseSharingMode shares images concurrently between two distinct families,
// graphics first. A single family gets exclusive ownership and no list.
func ChooseSharingMode(indices CompleteIndices) (core1_0.SharingMode, []int) {
	if indices.Shared() {
		return core1_0.SharingModeExclusive, nil
	}
	return core1_0.SharingModeConcurrent, []int{indices.Graphics, indices.Presentation}
}

// NegotiateSwapchain applies the selection policies to support.
func NegotiateSwapchain(support SwapchainSupport, indices CompleteIndices, width, height int) (SwapchainConfig, error) {
	if support.Capabilities == nil {
		return SwapchainConfig{}, errors.Mark(errors.New("surface reported no capabilities"), ErrSwapchainCreationFailed)
	}

	format, ok := ChooseSurfaceFormat(support.Formats)
	if !ok {
		return SwapchainConfig{}, errors.Mark(errors.New("surface reported no formats"), ErrSwapchainCreationFailed)
	}

	sharingMode, families := ChooseSharingMode(indices)

	return SwapchainConfig{
		Format:             format,
		PresentMode:        ChoosePresentMode(support.PresentModes),
		Extent:             ChooseExtent(support.Capabilities, width, height),
		ImageCount:         ChooseImageCount(support.Capabilities),
		SharingMode:        sharingMode,
		QueueFamilyIndices: families,
		PreTransform:       support.Capabilities.CurrentTransform,
	}, nil
}

// ColorImageViewCreateInfo describes a 2D color view of a whole single-level,
// single-layer image with identity swizzle. Image is left for the device to
// fill in.
func ColorImageViewCreateInfo(format core1_0.Format) core1_0.ImageViewCreateInfo {
	return core1_0.ImageViewCreateInfo{
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		Components: core1_0.ComponentMapping{
			R: core1_0.ComponentSwizzleIdentity,
			G: core1_0.ComponentSwizzleIdentity,
			B: core1_0.ComponentSwizzleIdentity,
			A: core1_0.ComponentSwizzleIdentity,
		},
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
}
