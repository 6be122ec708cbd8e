package gpu

import (
	"sort"

	"github.com/vkngwrapper/extensions/v2/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v2/khr_swapchain"
)

// DefaultDeviceExtensions are required of every device we render with.
var DefaultDeviceExtensions = []string{khr_swapchain.ExtensionName}

// MissingExtensions returns the sorted names in required that do not appear in
// available. Duplicates on either side are ignored.
func MissingExtensions(required, available []string) []string {
	pending := make(map[string]struct{}, len(required))
	for _, name := range required {
		pending[name] = struct{}{}
	}
	for _, name := range available {
		delete(pending, name)
	}

	missing := make([]string, 0, len(pending))
	for name := range pending {
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

func SupportsExtensions(required, available []string) bool {
	return len(MissingExtensions(required, available)) == 0
}

// EnabledDeviceExtensions is required plus the portability subset when the
// device advertises it, which Vulkan requires on portability implementations.
func EnabledDeviceExtensions(required, available []string) []string {
	names := append([]string(nil), required...)

	portability := []string{khr_portability_subset.ExtensionName}
	if SupportsExtensions(portability, available) && !SupportsExtensions(portability, names) {
		names = append(names, khr_portability_subset.ExtensionName)
	}
	return names
}
