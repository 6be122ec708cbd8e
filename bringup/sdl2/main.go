package main

import (
	"os"
	"runtime"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/bringup/config"
	"github.com/vkngwrapper/bringup/gpu"
	"github.com/vkngwrapper/bringup/gpu/vkng"
	"github.com/vkngwrapper/core/v2"
)

type Application struct {
	config config.Configuration
	logger log.FieldLogger

	window *sdl.Window

	// resources releases everything below in reverse: context, surface,
	// instance, window.
	resources *gpu.ReleaseStack
	instance  *vkng.Instance
	surface   *vkng.Surface
	context   *gpu.Context
}

func (app *Application) Run() error {
	app.resources = gpu.NewReleaseStack(app.logger)
	defer app.resources.Release()

	err := app.initWindow()
	if err != nil {
		return err
	}

	err = app.initVulkan()
	if err != nil {
		return err
	}

	app.logContext()
	return app.mainLoop()
}

func (app *Application) initWindow() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return err
	}
	app.resources.Push("sdl", sdl.Quit)

	window, err := sdl.CreateWindow(app.config.ApplicationName, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(app.config.ScreenWidth), int32(app.config.ScreenHeight), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		return err
	}
	app.window = window
	app.resources.Push("window", func() { window.Destroy() })

	return nil
}

func (app *Application) initVulkan() error {
	loader, err := core.CreateLoaderFromProcAddr(sdl.VulkanGetVkGetInstanceProcAddr())
	if err != nil {
		return err
	}

	app.instance, err = vkng.CreateInstance(loader, vkng.InstanceOptions{
		ApplicationName:  app.config.ApplicationName,
		WindowExtensions: app.window.VulkanGetInstanceExtensions(),
		Validation:       app.config.EnableValidation,
		ValidationLayers: app.config.ValidationLayers,
	}, app.logger.WithField("source", "validation"))
	if err != nil {
		return err
	}
	app.resources.Push("instance", app.instance.Destroy)

	app.surface, err = vkng.CreateSurface(app.instance, app.window)
	if err != nil {
		return err
	}
	app.resources.Push("surface", app.surface.Destroy)

	app.context, err = gpu.Initialize(app.instance, app.surface, gpu.Options{
		Width:            app.config.ScreenWidth,
		Height:           app.config.ScreenHeight,
		DeviceExtensions: app.config.DeviceExtensions,
		Logger:           app.logger,
	})
	if err != nil {
		return err
	}
	app.resources.Push("gpu context", app.context.Release)

	return nil
}

func (app *Application) logContext() {
	swapchain := app.context.Configuration()
	app.logger.WithFields(log.Fields{
		"device":          app.context.PhysicalDevice().Name(),
		"type":            app.context.PhysicalDevice().Type().String(),
		"graphics_family": app.context.Indices().Graphics,
		"present_family":  app.context.Indices().Presentation,
		"extent_width":    swapchain.Extent.Width,
		"extent_height":   swapchain.Extent.Height,
		"images":          len(app.context.Images()),
		"image_views":     len(app.context.ImageViews()),
	}).Info("ready to render")
}

func (app *Application) mainLoop() error {
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				return nil
			case *sdl.KeyboardEvent:
				if e.Keysym.Sym == sdl.K_ESCAPE {
					return nil
				}
			}
		}
		sdl.Delay(16)
	}
}

func main() {
	runtime.LockOSThread()

	cmd := processCommandLineArgs(os.Args[1:])

	cfg, err := config.Load(cmd.envFile)
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
	if cmd.validation {
		cfg.EnableValidation = true
	}
	if cmd.verbose {
		cfg.LogLevel = log.DebugLevel
	}

	logger := log.New()
	logger.SetLevel(cfg.LogLevel)

	app := &Application{
		config: cfg,
		logger: logger.WithField("session", uuid.New().String()),
	}

	err = app.Run()
	if err != nil {
		app.logger.Fatalf("%+v\n", err)
	}
}
