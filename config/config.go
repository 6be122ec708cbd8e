// Package config holds the settings for bringing up the renderer.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

// Environment variables that override the defaults.
const (
	EnvApplicationName  = "BRINGUP_APP_NAME"
	EnvWidth            = "BRINGUP_WIDTH"
	EnvHeight           = "BRINGUP_HEIGHT"
	EnvValidation       = "BRINGUP_VALIDATION"
	EnvLogLevel         = "BRINGUP_LOG_LEVEL"
	EnvDeviceExtensions = "BRINGUP_DEVICE_EXTENSIONS"
)

// Configuration describes the window and the Vulkan objects created for it.
type Configuration struct {
	ApplicationName string

	// ScreenWidth and ScreenHeight size the window, and the swapchain when
	// the surface leaves its extent to us.
	ScreenWidth  int
	ScreenHeight int

	// DeviceExtensions must all be supported by the selected GPU.
	DeviceExtensions []string

	EnableValidation bool
	ValidationLayers []string

	LogLevel logrus.Level
}

func Default() Configuration {
	return Configuration{
		ApplicationName:  "Hello Triangle",
		ScreenWidth:      800,
		ScreenHeight:     600,
		DeviceExtensions: []string{khr_swapchain.ExtensionName},
		EnableValidation: false,
		ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		LogLevel:         logrus.InfoLevel,
	}
}

// Load starts from Default and applies the environment. envFile, if not
// empty, is read first; variables already set in the process win over it.
func Load(envFile string) (Configuration, error) {
	cfg := Default()

	if envFile != "" {
		if _, err := os.Stat(envFile); err != nil {
			return cfg, errors.Wrapf(err, "env file %s", envFile)
		}
		if err := godotenv.Load(envFile); err != nil {
			return cfg, errors.Wrapf(err, "load env file %s", envFile)
		}
	}
	envy.Reload()

	cfg.ApplicationName = envy.Get(EnvApplicationName, cfg.ApplicationName)

	var err error
	cfg.ScreenWidth, err = intVar(EnvWidth, cfg.ScreenWidth)
	if err != nil {
		return cfg, err
	}

	cfg.ScreenHeight, err = intVar(EnvHeight, cfg.ScreenHeight)
	if err != nil {
		return cfg, err
	}

	if value := envy.Get(EnvValidation, ""); value != "" {
		cfg.EnableValidation, err = strconv.ParseBool(value)
		if err != nil {
			return cfg, errors.Wrapf(err, "%s", EnvValidation)
		}
	}

	if value := envy.Get(EnvLogLevel, ""); value != "" {
		cfg.LogLevel, err = logrus.ParseLevel(value)
		if err != nil {
			return cfg, errors.Wrapf(err, "%s", EnvLogLevel)
		}
	}

	for _, name := range strings.Split(envy.Get(EnvDeviceExtensions, ""), ",") {
		cfg.AddDeviceExtension(strings.TrimSpace(name))
	}

	return cfg, cfg.Validate()
}

func intVar(key string, fallback int) (int, error) {
	value := envy.Get(key, "")
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback, errors.Wrapf(err, "%s", key)
	}
	return parsed, nil
}

// AddDeviceExtension requires name unless it is empty or already required.
func (c *Configuration) AddDeviceExtension(name string) {
	if name == "" {
		return
	}
	for _, existing := range c.DeviceExtensions {
		if existing == name {
			return
		}
	}
	c.DeviceExtensions = append(c.DeviceExtensions, name)
}

func (c Configuration) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return errors.Newf("screen size must be positive, got %dx%d", c.ScreenWidth, c.ScreenHeight)
	}
	if c.EnableValidation && len(c.ValidationLayers) == 0 {
		return errors.New("validation enabled without any validation layers")
	}
	return nil
}
