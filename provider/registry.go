package provider

import (
	"github.com/samber/lo"
)

// Registry is the ordered list of installed providers. Earlier entries take priority.
type Registry struct {
	installed []Info
	index     map[string]int
}

// NewRegistry builds a registry from installed providers in priority order. Duplicate ids keep their first position.
func NewRegistry(installed ...Info) *Registry {
	installed = lo.UniqBy(installed, func(i Info) string { return i.ID })
	r := &Registry{installed: installed, index: make(map[string]int, len(installed))}
	for i, info := range installed {
		r.index[info.ID] = i
	}
	return r
}

// RegistryOf builds a registry from the addon-kind providers in ps, keeping their order.
func RegistryOf(ps []Provider) *Registry {
	addons := lo.Filter(ps, func(p Provider, _ int) bool {
		return p.Kind() == KindAddon
	})
	return NewRegistry(lo.Map(addons, func(p Provider, _ int) Info { return InfoOf(p) })...)
}

// Installed returns the installed providers in install order.
func (r *Registry) Installed() []Info {
	return append([]Info(nil), r.installed...)
}

// IsInstalled reports whether id is an installed provider.
func (r *Registry) IsInstalled(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Priority is len(installed) minus the install position for installed providers, 0 otherwise.
func (r *Registry) Priority(id string) int {
	i, ok := r.index[id]
	if !ok {
		return 0
	}
	return len(r.installed) - i
}
