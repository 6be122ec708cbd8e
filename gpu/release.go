package gpu

import "github.com/sirupsen/logrus"

type releaser struct {
	name    string
	release func()
}

// ReleaseStack owns resources in the order they were acquired and releases
// them in reverse. Each resource is released at most once.
type ReleaseStack struct {
	logger  logrus.FieldLogger
	entries []releaser
}

func NewReleaseStack(logger logrus.FieldLogger) *ReleaseStack {
	return &ReleaseStack{logger: logger}
}

// Push records a resource that has just been acquired.
func (s *ReleaseStack) Push(name string, release func()) {
	s.entries = append(s.entries, releaser{name: name, release: release})
}

func (s *ReleaseStack) Len() int {
	return len(s.entries)
}

// Release runs every pending release, most recent first, and empties the stack.
func (s *ReleaseStack) Release() {
	for len(s.entries) > 0 {
		last := len(s.entries) - 1
		entry := s.entries[last]
		s.entries = s.entries[:last]

		s.logger.WithField("resource", entry.name).Debug("releasing")
		entry.release()
	}
}
