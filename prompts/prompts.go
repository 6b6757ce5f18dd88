package prompts

import (
	"slices"
	"sort"
	"sync"
)

// Registry holds the example prompts of each tool.
type Registry struct {
	mu      sync.RWMutex
	prompts map[string][]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		prompts: make(map[string][]string),
	}
}

// Register sets the prompts for name, replacing any previous list in full.
func (r *Registry) Register(name string, prompts []string) {
	list := cloneList(prompts)

	r.mu.Lock()
	r.prompts[name] = list
	r.mu.Unlock()
}

// RegisterFor returns a pass-through wrapper that registers prompts for name
// and hands back the function it is given.
func RegisterFor[F any](r *Registry, name string, prompts []string) func(F) F {
	return func(fn F) F {
		r.Register(name, prompts)
		return fn
	}
}

// Decorate registers prompts for name and returns fn unchanged.
func Decorate[F any](r *Registry, name string, prompts []string, fn F) F {
	return RegisterFor[F](r, name, prompts)(fn)
}

// Get returns {name: prompts}. Unknown names map to an empty list.
func (r *Registry) Get(name string) map[string][]string {
	r.mu.RLock()
	list, ok := r.prompts[name]
	r.mu.RUnlock()

	if !ok {
		return map[string][]string{name: {}}
	}
	return map[string][]string{name: cloneList(list)}
}

// All returns a copy of every registered entry.
func (r *Registry) All() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]string, len(r.prompts))
	for name, list := range r.prompts {
		out[name] = cloneList(list)
	}
	return out
}

// Query returns All when name is empty and Get(name) otherwise.
func (r *Registry) Query(name string) map[string][]string {
	if name == "" {
		return r.All()
	}
	return r.Get(name)
}

// Lookup returns the prompts for name and whether name was registered.
func (r *Registry) Lookup(name string) ([]string, bool) {
	r.mu.RLock()
	list, ok := r.prompts[name]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return cloneList(list), true
}

// Remove deletes the entry for name and reports whether it existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prompts[name]; !ok {
		return false
	}
	delete(r.prompts, name)
	return true
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.prompts))
	for name := range r.prompts {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Len returns the number of registered tool names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// cloneList never returns nil so empty registrations stay distinguishable
// from missing ones in JSON output.
func cloneList(list []string) []string {
	if list == nil {
		return []string{}
	}
	return slices.Clone(list)
}
