package config

import (
	"slices"
	"sync"

	"github.com/spf13/pflag"
)

// FlagTracker records which command-line flags the user set explicitly.
// Only those flags override values loaded from configuration files.
type FlagTracker struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

// NewFlagTracker creates an empty tracker
func NewFlagTracker() *FlagTracker {
	return &FlagTracker{set: make(map[string]struct{})}
}

// NewFlagTrackerWithFlags creates a tracker from a name -> set map; the map
// is copied
func NewFlagTrackerWithFlags(flags map[string]bool) *FlagTracker {
	ft := NewFlagTracker()
	for name, set := range flags {
		if set {
			ft.set[name] = struct{}{}
		}
	}
	return ft
}

// NewFlagTrackerFromFlagSet records every flag the user changed on the command line
func NewFlagTrackerFromFlagSet(fs *pflag.FlagSet) *FlagTracker {
	ft := NewFlagTracker()
	if fs == nil {
		return ft
	}
	fs.Visit(func(f *pflag.Flag) {
		ft.set[f.Name] = struct{}{}
	})
	return ft
}

// Set marks a flag as explicitly set
func (ft *FlagTracker) Set(name string) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.set[name] = struct{}{}
}

// WasSet reports whether the flag was explicitly set. A nil tracker has
// no flags set.
func (ft *FlagTracker) WasSet(name string) bool {
	if ft == nil {
		return false
	}
	ft.mu.RLock()
	defer ft.mu.RUnlock()
	_, ok := ft.set[name]
	return ok
}

// Names returns the explicitly set flags in sorted order
func (ft *FlagTracker) Names() []string {
	if ft == nil {
		return nil
	}
	ft.mu.RLock()
	defer ft.mu.RUnlock()

	names := make([]string, 0, len(ft.set))
	for name := range ft.set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Pick returns override when the flag was set explicitly and base otherwise
func Pick[T any](ft *FlagTracker, name string, base, override T) T {
	if ft.WasSet(name) {
		return override
	}
	return base
}
