package gpu

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v2/core1_0"
)

// FamilyIndex is a queue family index that may not have been found.
type FamilyIndex struct {
	index int
	found bool
}

func FoundFamily(index int) FamilyIndex {
	return FamilyIndex{index: index, found: true}
}

func (f FamilyIndex) Get() (int, bool) {
	return f.index, f.found
}

func (f FamilyIndex) Found() bool {
	return f.found
}

func (f FamilyIndex) String() string {
	if !f.found {
		return "none"
	}
	return fmt.Sprintf("%d", f.index)
}

// QueueFamilyIndices holds the queue family for each role on one physical device.
// It is derived from a live device every time and is never carried across devices.
type QueueFamilyIndices struct {
	Graphics     FamilyIndex
	Presentation FamilyIndex
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.Graphics.found && i.Presentation.found
}

// Complete converts the indices into a form usable for device and swapchain
// creation. It fails if either role is missing.
func (i QueueFamilyIndices) Complete() (CompleteIndices, error) {
	if !i.IsComplete() {
		return CompleteIndices{}, errors.Newf("incomplete queue families: graphics=%s presentation=%s", i.Graphics, i.Presentation)
	}
	return CompleteIndices{Graphics: i.Graphics.index, Presentation: i.Presentation.index}, nil
}

// CompleteIndices has both roles resolved. The two may name the same family.
type CompleteIndices struct {
	Graphics     int
	Presentation int
}

// Shared reports whether one family serves both roles.
func (c CompleteIndices) Shared() bool {
	return c.Graphics == c.Presentation
}

// Unique returns the distinct families, graphics first.
func (c CompleteIndices) Unique() []int {
	if c.Shared() {
		return []int{c.Graphics}
	}
	return []int{c.Graphics, c.Presentation}
}

// FindGraphicsFamily returns the first family with at least one queue and the
// graphics bit set.
func FindGraphicsFamily(families []core1_0.QueueFamilyProperties) FamilyIndex {
	for idx, family := range families {
		if family.QueueCount < 1 {
			continue
		}
		if family.QueueFlags&core1_0.QueueGraphics != 0 {
			return FoundFamily(idx)
		}
	}
	return FamilyIndex{}
}

// FindPresentationFamily returns the lowest family with at least one queue for
// which supported reports true. The scan stops at the first match.
func FindPresentationFamily(families []core1_0.QueueFamilyProperties, supported func(family int) (bool, error)) (FamilyIndex, error) {
	for idx, family := range families {
		if family.QueueCount < 1 {
			continue
		}
		ok, err := supported(idx)
		if err != nil {
			return FamilyIndex{}, errors.Wrapf(err, "query presentation support for family %d", idx)
		}
		if ok {
			return FoundFamily(idx), nil
		}
	}
	return FamilyIndex{}, nil
}

// FindQueueFamilies probes device for a graphics family and a family able to
// present to surface.
func FindQueueFamilies(device PhysicalDevice, surface Surface) (QueueFamilyIndices, error) {
	families := device.QueueFamilies()

	presentation, err := FindPresentationFamily(families, func(family int) (bool, error) {
		return surface.SupportsPresentation(device, family)
	})
	if err != nil {
		return QueueFamilyIndices{}, err
	}

	return QueueFamilyIndices{
		Graphics:     FindGraphicsFamily(families),
		Presentation: presentation,
	}, nil
}
