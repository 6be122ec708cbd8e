// Package gpu selects a physical device, opens a logical device on it and
// negotiates a swapchain for a surface.
//
// The decisions are made by pure functions over the driver's reported
// capabilities (FindGraphicsFamily, MissingExtensions, ChooseSurfaceFormat and
// friends). Initialize strings them together against the Instance, Surface and
// Device interfaces; package vkng implements those interfaces on vkngwrapper.
package gpu

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
)

// Options configures Initialize.
type Options struct {
	// Width and Height are used when the surface does not dictate an extent.
	Width  int
	Height int
	// DeviceExtensions must all be supported by the selected device.
	DeviceExtensions []string
	Logger           logrus.FieldLogger
}

// Context is everything a render loop needs from initialization. Release it
// before the surface and instance it was created from.
type Context struct {
	physicalDevice PhysicalDevice
	indices        CompleteIndices

	device        Device
	graphicsQueue Queue
	presentQueue  Queue

	swapchain Swapchain
	config    SwapchainConfig
	images    []Image
	views     []ImageView

	resources *ReleaseStack
}

func (c *Context) PhysicalDevice() PhysicalDevice { return c.physicalDevice }
func (c *Context) Indices() CompleteIndices       { return c.indices }
func (c *Context) Device() Device                 { return c.device }
func (c *Context) GraphicsQueue() Queue           { return c.graphicsQueue }
func (c *Context) PresentQueue() Queue            { return c.presentQueue }
func (c *Context) Swapchain() Swapchain           { return c.swapchain }
func (c *Context) Configuration() SwapchainConfig { return c.config }
func (c *Context) Images() []Image                { return c.images }
func (c *Context) ImageViews() []ImageView        { return c.views }

// Release destroys the image views, the swapchain and the device, in that
// order. Calling it again does nothing.
func (c *Context) Release() {
	c.resources.Release()
	c.views = nil
	c.images = nil
	c.swapchain = nil
	c.device = nil
	c.graphicsQueue = nil
	c.presentQueue = nil
}

func stage(logger logrus.FieldLogger, name string, run func() error) error {
	start := hrtime.Now()
	logger.WithField("stage", name).Debug("starting")

	if err := run(); err != nil {
		return errors.Wrapf(err, "%s", name)
	}

	logger.WithFields(logrus.Fields{
		"stage":   name,
		"elapsed": hrtime.Since(start),
	}).Info("stage complete")
	return nil
}

// Initialize selects a device able to render to surface, opens it and builds a
// swapchain with one color view per image. If any stage fails, everything it
// created is released before the error is returned.
func Initialize(instance Instance, surface Surface, options Options) (*Context, error) {
	logger := options.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if options.DeviceExtensions == nil {
		options.DeviceExtensions = DefaultDeviceExtensions
	}

	c := &Context{resources: NewReleaseStack(logger)}
	if err := c.initialize(instance, surface, options, logger); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

func (c *Context) initialize(instance Instance, surface Surface, options Options, logger logrus.FieldLogger) error {
	err := stage(logger, "pick physical device", func() error {
		var err error
		c.physicalDevice, c.indices, err = PickPhysicalDevice(instance, surface, options.DeviceExtensions, logger)
		return err
	})
	if err != nil {
		return err
	}

	err = stage(logger, "create logical device", func() error {
		logical, err := CreateLogicalDevice(c.physicalDevice, c.indices, options.DeviceExtensions)
		if err != nil {
			return err
		}
		c.device = logical.Device
		c.graphicsQueue = logical.GraphicsQueue
		c.presentQueue = logical.PresentQueue
		c.resources.Push("device", logical.Device.Destroy)
		return nil
	})
	if err != nil {
		return err
	}

	err = stage(logger, "create swapchain", func() error {
		return c.createSwapchain(surface, options.Width, options.Height, logger)
	})
	if err != nil {
		return err
	}

	return stage(logger, "create image views", c.createImageViews)
}

func (c *Context) createSwapchain(surface Surface, width, height int, logger logrus.FieldLogger) error {
	support, err := QuerySwapchainSupport(c.physicalDevice, surface)
	if err != nil {
		return errors.Mark(err, ErrSwapchainCreationFailed)
	}

	config, err := NegotiateSwapchain(support, c.indices, width, height)
	if err != nil {
		return err
	}

	swapchain, err := c.device.CreateSwapchain(surface, config)
	if err != nil {
		return markf(err, ErrSwapchainCreationFailed, "create swapchain of %d images", config.ImageCount)
	}
	c.resources.Push("swapchain", swapchain.Destroy)
	c.swapchain = swapchain
	c.config = config

	logger.WithFields(logrus.Fields{
		"format":       fmt.Sprintf("%v/%v", config.Format.Format, config.Format.ColorSpace),
		"present_mode": config.PresentMode,
		"extent":       fmt.Sprintf("%dx%d", config.Extent.Width, config.Extent.Height),
		"image_count":  config.ImageCount,
		"sharing_mode": config.SharingMode,
	}).Info("negotiated swapchain")
	return nil
}

func (c *Context) createImageViews() error {
	images, err := c.swapchain.Images()
	if err != nil {
		return markf(err, ErrSwapchainCreationFailed, "get swapchain images")
	}
	c.images = images

	info := ColorImageViewCreateInfo(c.config.Format.Format)
	views := make([]ImageView, 0, len(images))
	for idx, image := range images {
		view, err := c.device.CreateImageView(image, info)
		if err != nil {
			return markf(err, ErrImageViewCreationFailed, "create view for swapchain image %d", idx)
		}
		c.resources.Push(fmt.Sprintf("image view %d", idx), view.Destroy)
		views = append(views, view)
	}
	c.views = views

	return nil
}
