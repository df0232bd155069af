package di

import (
	"fmt"
	"sync"
)

// Token is a typed handle for a registered service. The type parameter keeps
// lookups compile-time safe while the registry itself stays stringly keyed.
type Token[T any] struct {
	name string
}

// NewToken creates a token under a unique name. Convention:
// "context.Service" for public services, "context:dependency" for private ones.
func NewToken[T any](name string) Token[T] {
	return Token[T]{name: name}
}

// Name returns the registry key of the token.
func (t Token[T]) Name() string {
	return t.name
}

// RegisterToken registers a lazily constructed singleton under the token.
// The factory runs at most once, on first resolution, so registration order
// between modules does not matter.
func RegisterToken[T any](c Container, tok Token[T], factory func(ServiceRegistry) T) {
	var once sync.Once
	var instance T

	c.Register(tok.name, func() any {
		once.Do(func() {
			instance = factory(c)
		})
		return instance
	})
}

// GetToken resolves a token to its service, running the factory if it has not
// run yet. Resolving an unregistered or mistyped token panics: both are
// wiring bugs that must surface at startup.
func GetToken[T any](r ServiceRegistry, tok Token[T]) T {
	svc := r.MustGet(tok.name)

	if lazy, ok := svc.(func() any); ok {
		svc = lazy()
	}

	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("di: service %q has type %T, token expects %T", tok.name, svc, typed))
	}
	return typed
}
