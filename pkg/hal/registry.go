package hal

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory opens a Platform implementation.
type Factory func(ctx context.Context) (Platform, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Factory)
)

// Register makes a platform driver available by name. It panics if called
// twice with the same name or with a nil factory.
func Register(name string, f Factory) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if f == nil {
		panic("hal: Register factory is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("hal: Register called twice for driver " + name)
	}
	drivers[name] = f
}

// Open opens the platform registered as name.
func Open(ctx context.Context, name string) (Platform, error) {
	driversMu.RLock()
	f, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("hal: unknown driver %q (registered: %v)", name, Drivers())
	}
	return f(ctx)
}

// Drivers returns the sorted list of registered driver names.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
