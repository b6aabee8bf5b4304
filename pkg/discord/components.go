package discord

import (
	"strings"
	"sync"
)

// ComponentFunc handles a button or select interaction
type ComponentFunc func(ctx *CommandContext) error

// ComponentRouter maps component custom IDs to handlers.
// Exact IDs win over prefixes; among prefixes the longest match wins.
type ComponentRouter struct {
	exact    map[string]ComponentFunc
	prefixes map[string]ComponentFunc
	mu       sync.RWMutex
}

// NewComponentRouter creates an empty router
func NewComponentRouter() *ComponentRouter {
	return &ComponentRouter{
		exact:    make(map[string]ComponentFunc),
		prefixes: make(map[string]ComponentFunc),
	}
}

// Handle registers fn for one custom ID
func (r *ComponentRouter) Handle(customID string, fn ComponentFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exact[customID] = fn
}

// HandlePrefix registers fn for every custom ID starting with prefix
func (r *ComponentRouter) HandlePrefix(prefix string, fn ComponentFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefixes[prefix] = fn
}

// Lookup returns the handler for customID
func (r *ComponentRouter) Lookup(customID string) (ComponentFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, ok := r.exact[customID]; ok {
		return fn, true
	}

	var best string
	var bestFn ComponentFunc
	for prefix, fn := range r.prefixes {
		if strings.HasPrefix(customID, prefix) && len(prefix) > len(best) {
			best, bestFn = prefix, fn
		}
	}
	return bestFn, bestFn != nil
}

// Dispatch runs the handler for customID. handled is false when none is registered.
func (r *ComponentRouter) Dispatch(ctx *CommandContext, customID string) (handled bool, err error) {
	fn, ok := r.Lookup(customID)
	if !ok {
		return false, nil
	}
	return true, fn(ctx)
}
