package gpu

import "github.com/cockroachdb/errors"

// Initialization failure conditions. Stage errors are marked with one of these,
// so errors.Is identifies the failed stage while %+v still shows the driver cause.
var (
	ErrInstanceCreationFailed  = errors.New("instance creation failed")
	ErrSurfaceCreationFailed   = errors.New("surface creation failed")
	ErrNoDevicesFound          = errors.New("no physical devices found")
	ErrNoSuitableDevice        = errors.New("no suitable physical device")
	ErrDeviceCreationFailed    = errors.New("logical device creation failed")
	ErrSwapchainCreationFailed = errors.New("swapchain creation failed")
	ErrImageViewCreationFailed = errors.New("image view creation failed")
)

func markf(err error, mark error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), mark)
}
