package gpu

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/common"
	"github.com/vkngwrapper/core/v2/core1_0"
	"github.com/vkngwrapper/extensions/v2/khr_surface"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

// journal records creations and releases in the order the driver saw them.
type journal struct {
	created  []string
	released []string
}

func (j *journal) create(name string)  { j.created = append(j.created, name) }
func (j *journal) release(name string) { j.released = append(j.released, name) }

var (
	graphicsFamily = core1_0.QueueFamilyProperties{QueueFlags: core1_0.QueueGraphics, QueueCount: 1}
	computeFamily  = core1_0.QueueFamilyProperties{QueueFlags: core1_0.QueueCompute, QueueCount: 1}
	emptyGraphics  = core1_0.QueueFamilyProperties{QueueFlags: core1_0.QueueGraphics, QueueCount: 0}
)

type fakeInstance struct {
	devices []PhysicalDevice
	err     error
}

func (i *fakeInstance) PhysicalDevices() ([]PhysicalDevice, error) {
	return i.devices, i.err
}

type fakePhysicalDevice struct {
	name          string
	deviceType    core1_0.PhysicalDeviceType
	apiVersion    common.APIVersion
	families      []core1_0.QueueFamilyProperties
	presentable   map[int]bool
	extensions    []string
	extensionsErr error

	capabilities *khr_surface.SurfaceCapabilities
	formats      []khr_surface.SurfaceFormat
	presentModes []khr_surface.PresentMode

	createErr  error
	createInfo *core1_0.DeviceCreateInfo
	device     *fakeDevice
}

// newFakePhysicalDevice is a device with a single family that does everything.
func newFakePhysicalDevice(name string, log *journal) *fakePhysicalDevice {
	return &fakePhysicalDevice{
		name:        name,
		deviceType:  core1_0.PhysicalDeviceTypeDiscreteGPU,
		apiVersion:  common.Vulkan1_2,
		families:    []core1_0.QueueFamilyProperties{graphicsFamily},
		presentable: map[int]bool{0: true},
		extensions:  []string{khr_swapchain.ExtensionName},
		capabilities: &khr_surface.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  8,
			CurrentExtent:  core1_0.Extent2D{Width: 1024, Height: 768},
			MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
		},
		formats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		presentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
		device:       &fakeDevice{log: log, imageCount: -1, failViewAt: -1},
	}
}

func (d *fakePhysicalDevice) Name() string { return d.name }

func (d *fakePhysicalDevice) Type() core1_0.PhysicalDeviceType { return d.deviceType }

func (d *fakePhysicalDevice) APIVersion() common.APIVersion { return d.apiVersion }

func (d *fakePhysicalDevice) QueueFamilies() []core1_0.QueueFamilyProperties { return d.families }

func (d *fakePhysicalDevice) Extensions() ([]string, error) {
	return d.extensions, d.extensionsErr
}

func (d *fakePhysicalDevice) CreateDevice(info core1_0.DeviceCreateInfo) (Device, error) {
	d.createInfo = &info
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.device.log.create("device")
	return d.device, nil
}

type fakeSurface struct {
	supportErr      error
	capabilitiesErr error
	queried         []int
}

func (s *fakeSurface) SupportsPresentation(device PhysicalDevice, family int) (bool, error) {
	s.queried = append(s.queried, family)
	if s.supportErr != nil {
		return false, s.supportErr
	}
	return device.(*fakePhysicalDevice).presentable[family], nil
}

func (s *fakeSurface) Capabilities(device PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	if s.capabilitiesErr != nil {
		return nil, s.capabilitiesErr
	}
	return device.(*fakePhysicalDevice).capabilities, nil
}

func (s *fakeSurface) Formats(device PhysicalDevice) ([]khr_surface.SurfaceFormat, error) {
	return device.(*fakePhysicalDevice).formats, nil
}

func (s *fakeSurface) PresentModes(device PhysicalDevice) ([]khr_surface.PresentMode, error) {
	return device.(*fakePhysicalDevice).presentModes, nil
}

type fakeQueue struct {
	family int
}

type fakeImage struct {
	index int
}

type fakeDevice struct {
	log *journal

	swapchainErr error
	imagesErr    error
	// imageCount overrides the number of images the swapchain hands back.
	imageCount int
	failViewAt int

	swapchainConfig *SwapchainConfig
	viewInfos       []core1_0.ImageViewCreateInfo
	viewImages      []Image
	destroyed       int
}

func (d *fakeDevice) Queue(family int) Queue {
	return fakeQueue{family: family}
}

func (d *fakeDevice) CreateSwapchain(surface Surface, config SwapchainConfig) (Swapchain, error) {
	d.swapchainConfig = &config
	if d.swapchainErr != nil {
		return nil, d.swapchainErr
	}

	count := config.ImageCount
	if d.imageCount >= 0 {
		count = d.imageCount
	}
	images := make([]Image, count)
	for idx := range images {
		images[idx] = fakeImage{index: idx}
	}

	d.log.create("swapchain")
	return &fakeSwapchain{log: d.log, images: images, err: d.imagesErr}, nil
}

func (d *fakeDevice) CreateImageView(image Image, info core1_0.ImageViewCreateInfo) (ImageView, error) {
	index := image.(fakeImage).index
	if index == d.failViewAt {
		return nil, errors.Newf("out of device memory")
	}
	d.viewInfos = append(d.viewInfos, info)
	d.viewImages = append(d.viewImages, image)

	name := fmt.Sprintf("view %d", index)
	d.log.create(name)
	return &fakeView{log: d.log, name: name}, nil
}

func (d *fakeDevice) Destroy() {
	d.destroyed++
	d.log.release("device")
}

type fakeSwapchain struct {
	log       *journal
	images    []Image
	err       error
	destroyed int
}

func (s *fakeSwapchain) Images() ([]Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.images, nil
}

func (s *fakeSwapchain) Destroy() {
	s.destroyed++
	s.log.release("swapchain")
}

type fakeView struct {
	log       *journal
	name      string
	destroyed int
}

func (v *fakeView) Destroy() {
	v.destroyed++
	v.log.release(v.name)
}
