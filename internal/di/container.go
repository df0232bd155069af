// Package di provides a minimal string-token service registry used to wire
// bounded-context modules together at startup.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read-only view handed to consumers.
type ServiceRegistry interface {
	// Get returns the service registered under name, or nil.
	Get(name string) any
	// MustGet returns the service registered under name and panics if absent.
	// Startup wiring errors are programmer errors, not runtime conditions.
	MustGet(name string) any
}

// Container is the writable registry modules register services into.
type Container interface {
	ServiceRegistry
	Register(name string, service any)
}

type container struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewContainer creates an empty Container.
func NewContainer() Container {
	return &container{services: make(map[string]any)}
}

func (c *container) Register(name string, service any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = service
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[name]
}

func (c *container) MustGet(name string) any {
	svc := c.Get(name)
	if svc == nil {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	return svc
}
