package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/bringup/gpu"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v2"
)

// Surface is a presentable surface for an SDL window.
type Surface struct {
	surface khr_surface.Surface
}

// CreateSurface creates a surface for window. Failures are marked
// gpu.ErrSurfaceCreationFailed.
func CreateSurface(instance *Instance, window *sdl.Window) (*Surface, error) {
	surfaceLoader := khr_surface.CreateExtensionFromInstance(instance.instance)

	surface, err := vkng_sdl2.CreateSurface(instance.instance, surfaceLoader, window)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "create sdl2 surface"), gpu.ErrSurfaceCreationFailed)
	}

	return &Surface{surface: surface}, nil
}

func (s *Surface) SupportsPresentation(device gpu.PhysicalDevice, family int) (bool, error) {
	physical, err := physicalHandle(device)
	if err != nil {
		return false, err
	}

	supported, _, err := s.surface.PhysicalDeviceSurfaceSupport(physical, family)
	return supported, err
}

func (s *Surface) Capabilities(device gpu.PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	physical, err := physicalHandle(device)
	if err != nil {
		return nil, err
	}

	capabilities, _, err := s.surface.PhysicalDeviceSurfaceCapabilities(physical)
	return capabilities, err
}

func (s *Surface) Formats(device gpu.PhysicalDevice) ([]khr_surface.SurfaceFormat, error) {
	physical, err := physicalHandle(device)
	if err != nil {
		return nil, err
	}

	formats, _, err := s.surface.PhysicalDeviceSurfaceFormats(physical)
	return formats, err
}

func (s *Surface) PresentModes(device gpu.PhysicalDevice) ([]khr_surface.PresentMode, error) {
	physical, err := physicalHandle(device)
	if err != nil {
		return nil, err
	}

	modes, _, err := s.surface.PhysicalDeviceSurfacePresentModes(physical)
	return modes, err
}

func (s *Surface) Destroy() {
	if s.surface != nil {
		s.surface.Destroy(nil)
		s.surface = nil
	}
}
