package gpu

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
)

var (
	preferredFormat = khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	floatFormat     = khr_surface.SurfaceFormat{Format: core1_0.FormatR32G32B32SignedFloat, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	wrongColorSpace = khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear + 1}

	presentModeImmediate = khr_surface.PresentMode(0)
)

func TestChooseSurfaceFormat(t *testing.T) {
	for _, tc := range []struct {
		name     string
		formats  []khr_surface.SurfaceFormat
		expected khr_surface.SurfaceFormat
	}{
		{"only preferred", []khr_surface.SurfaceFormat{preferredFormat}, preferredFormat},
		{"preferred first", []khr_surface.SurfaceFormat{preferredFormat, floatFormat}, preferredFormat},
		{"preferred last", []khr_surface.SurfaceFormat{floatFormat, wrongColorSpace, preferredFormat}, preferredFormat},
		{"fallback to first", []khr_surface.SurfaceFormat{floatFormat, wrongColorSpace}, floatFormat},
		{"color space must match", []khr_surface.SurfaceFormat{wrongColorSpace, floatFormat}, wrongColorSpace},
	} {
		t.Run(tc.name, func(t *testing.T) {
			format, ok := ChooseSurfaceFormat(tc.formats)
			require.True(t, ok)
			require.Equal(t, tc.expected, format)
		})
	}

	_, ok := ChooseSurfaceFormat(nil)
	require.False(t, ok)
}

func TestChoosePresentMode(t *testing.T) {
	require.Equal(t, khr_surface.PresentModeMailbox, ChoosePresentMode([]khr_surface.PresentMode{
		khr_surface.PresentModeFIFO, presentModeImmediate, khr_surface.PresentModeMailbox,
	}))
	require.Equal(t, khr_surface.PresentModeFIFO, ChoosePresentMode([]khr_surface.PresentMode{
		presentModeImmediate, khr_surface.PresentModeFIFO,
	}))
	require.Equal(t, khr_surface.PresentModeFIFO, ChoosePresentMode([]khr_surface.PresentMode{presentModeImmediate}))
	require.Equal(t, khr_surface.PresentModeFIFO, ChoosePresentMode(nil))
}

func capabilities(current, min, max core1_0.Extent2D) *khr_surface.SurfaceCapabilities {
	return &khr_surface.SurfaceCapabilities{
		CurrentExtent:  current,
		MinImageExtent: min,
		MaxImageExtent: max,
	}
}

func TestChooseExtent(t *testing.T) {
	undefined := core1_0.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32}
	minusOne := core1_0.Extent2D{Width: -1, Height: -1}

	for _, tc := range []struct {
		name         string
		capabilities *khr_surface.SurfaceCapabilities
		expected     core1_0.Extent2D
	}{
		{
			"fixed by surface",
			capabilities(core1_0.Extent2D{Width: 1920, Height: 1080}, core1_0.Extent2D{Width: 100, Height: 100}, core1_0.Extent2D{Width: 200, Height: 200}),
			core1_0.Extent2D{Width: 1920, Height: 1080},
		},
		{
			"default fits",
			capabilities(undefined, core1_0.Extent2D{Width: 100, Height: 100}, core1_0.Extent2D{Width: 2000, Height: 2000}),
			core1_0.Extent2D{Width: 800, Height: 600},
		},
		{
			"clamped up",
			capabilities(undefined, core1_0.Extent2D{Width: 1000, Height: 1000}, core1_0.Extent2D{Width: 2000, Height: 2000}),
			core1_0.Extent2D{Width: 1000, Height: 1000},
		},
		{
			"clamped down",
			capabilities(undefined, core1_0.Extent2D{Width: 1, Height: 1}, core1_0.Extent2D{Width: 640, Height: 480}),
			core1_0.Extent2D{Width: 640, Height: 480},
		},
		{
			"axes clamp independently",
			capabilities(minusOne, core1_0.Extent2D{Width: 900, Height: 1}, core1_0.Extent2D{Width: 4096, Height: 500}),
			core1_0.Extent2D{Width: 900, Height: 500},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ChooseExtent(tc.capabilities, 800, 600))
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	require.Equal(t, 3, ChooseImageCount(&khr_surface.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}))
	require.Equal(t, 2, ChooseImageCount(&khr_surface.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}))
	require.Equal(t, 3, ChooseImageCount(&khr_surface.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8}))
	require.Equal(t, 2, ChooseImageCount(&khr_surface.SurfaceCapabilities{MinImageCount: 1, MaxImageCount: 3}))
}

func TestChooseSharingMode(t *testing.T) {
	mode, families := ChooseSharingMode(CompleteIndices{Graphics: 1, Presentation: 1})
	require.Equal(t, core1_0.SharingModeExclusive, mode)
	require.Empty(t, families)

	mode, families = ChooseSharingMode(CompleteIndices{Graphics: 2, Presentation: 0})
	require.Equal(t, core1_0.SharingModeConcurrent, mode)
	require.Equal(t, []int{2, 0}, families)
}

func TestNegotiateSwapchain(t *testing.T) {
	caps := &khr_surface.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  0,
		CurrentExtent:  core1_0.Extent2D{Width: -1, Height: -1},
		MinImageExtent: core1_0.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: core1_0.Extent2D{Width: 2000, Height: 2000},
	}

	config, err := NegotiateSwapchain(SwapchainSupport{
		Capabilities: caps,
		Formats:      []khr_surface.SurfaceFormat{floatFormat, preferredFormat},
		PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeMailbox},
	}, CompleteIndices{Graphics: 0, Presentation: 1}, 800, 600)
	require.NoError(t, err)

	require.Equal(t, SwapchainConfig{
		Format:             preferredFormat,
		PresentMode:        khr_surface.PresentModeMailbox,
		Extent:             core1_0.Extent2D{Width: 800, Height: 600},
		ImageCount:         3,
		SharingMode:        core1_0.SharingModeConcurrent,
		QueueFamilyIndices: []int{0, 1},
		PreTransform:       caps.CurrentTransform,
	}, config)
	require.Nil(t, config.OldSwapchain)
}

func TestNegotiateSwapchainWithoutFormats(t *testing.T) {
	_, err := NegotiateSwapchain(SwapchainSupport{
		Capabilities: &khr_surface.SurfaceCapabilities{},
		PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
	}, CompleteIndices{}, 800, 600)
	require.True(t, errors.Is(err, ErrSwapchainCreationFailed))

	_, err = NegotiateSwapchain(SwapchainSupport{}, CompleteIndices{}, 800, 600)
	require.True(t, errors.Is(err, ErrSwapchainCreationFailed))
}

func TestSwapchainSupportAdequate(t *testing.T) {
	require.False(t, SwapchainSupport{}.Adequate())
	require.False(t, SwapchainSupport{
		Capabilities: &khr_surface.SurfaceCapabilities{},
		Formats:      []khr_surface.SurfaceFormat{preferredFormat},
	}.Adequate())
	require.True(t, SwapchainSupport{
		Capabilities: &khr_surface.SurfaceCapabilities{},
		Formats:      []khr_surface.SurfaceFormat{preferredFormat},
		PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
	}.Adequate())
}

func TestColorImageViewCreateInfo(t *testing.T) {
	info := ColorImageViewCreateInfo(core1_0.FormatB8G8R8A8SRGB)

	require.Nil(t, info.Image)
	require.Equal(t, core1_0.ImageViewType2D, info.ViewType)
	require.Equal(t, core1_0.FormatB8G8R8A8SRGB, info.Format)
	require.Equal(t, core1_0.ComponentSwizzleIdentity, info.Components.R)
	require.Equal(t, core1_0.ComponentSwizzleIdentity, info.Components.G)
	require.Equal(t, core1_0.ComponentSwizzleIdentity, info.Components.B)
	require.Equal(t, core1_0.ComponentSwizzleIdentity, info.Components.A)
	require.Equal(t, core1_0.ImageAspectColor, info.SubresourceRange.AspectMask)
	require.Equal(t, 0, info.SubresourceRange.BaseMipLevel)
	require.Equal(t, 1, info.SubresourceRange.LevelCount)
	require.Equal(t, 0, info.SubresourceRange.BaseArrayLayer)
	require.Equal(t, 1, info.SubresourceRange.LayerCount)
}
