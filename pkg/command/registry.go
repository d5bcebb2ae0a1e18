// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Registry is the fully-built, immutable two-level command table. It is
// built exactly once at startup and is safe for concurrent reads from any
// number of sessions without synchronization.
type Registry struct {
	groups map[string]map[string]Descriptor
	descs  map[string]GroupSpec
}

// Build folds the handlers' declared metadata into a Registry.
//
// For each handler, the group map is fetched or created, the default
// action is resolved (the handler's Execute method if it implements
// DefaultRunner, a nil callable otherwise), and the declared subcommands
// are merged in. Within one handler's own declaration list a later entry
// silently replaces an earlier one with the same name; the same command
// name registered into one group by two different handlers is a
// configuration fault and fails the build.
//
// Build is configuration-time: any error aborts startup and no partial
// registry is served.
func Build(handlers ...Handler) (*Registry, error) {
	r := &Registry{
		groups: make(map[string]map[string]Descriptor),
		descs:  make(map[string]GroupSpec),
	}

	for _, h := range handlers {
		d, err := discover(h)
		if err != nil {
			return nil, fmt.Errorf("building command registry: %w", err)
		}
		if err := r.merge(d); err != nil {
			return nil, fmt.Errorf("building command registry: %w", err)
		}
	}

	return r, nil
}

// merge adds one discovered handler's commands to the registry.
func (r *Registry) merge(d discovered) error {
	group, ok := r.groups[d.group.Name]
	if !ok {
		group = make(map[string]Descriptor)
		r.groups[d.group.Name] = group
		r.descs[d.group.Name] = d.group
	}

	// Default action first, declared subcommands second: a subcommand
	// explicitly named DefaultKey replaces the resolved default, last
	// writer wins.
	def := Descriptor{Group: d.group.Name, Name: DefaultKey, Description: d.group.Description}
	if runner, ok := d.handler.(DefaultRunner); ok {
		def.Run = runner.Execute
	}
	group[DefaultKey] = def

	// Track which names this handler wrote so its own duplicates can
	// overwrite while cross-handler duplicates are rejected.
	written := map[string]bool{DefaultKey: true}

	for _, spec := range d.handler.Commands() {
		if spec.Name == "" {
			return fmt.Errorf("group %q: command registered with empty name", d.group.Name)
		}
		if spec.Run == nil {
			return fmt.Errorf("group %q: command %q has no callable", d.group.Name, spec.Name)
		}
		if _, exists := group[spec.Name]; exists && !written[spec.Name] {
			return &DuplicateCommandError{Group: d.group.Name, Name: spec.Name}
		}
		group[spec.Name] = Descriptor{
			Group:       d.group.Name,
			Name:        spec.Name,
			Description: spec.Description,
			Run:         spec.Run,
		}
		written[spec.Name] = true
	}

	return nil
}

// Lookup returns the descriptor for (group, name) and whether it exists.
// Every present group has a DefaultKey entry, so Lookup(group, DefaultKey)
// never misses for a known group; the returned descriptor may still carry
// a nil callable, which callers must treat as "unknown command".
func (r *Registry) Lookup(group, name string) (Descriptor, bool) {
	cmds, ok := r.groups[group]
	if !ok {
		return Descriptor{}, false
	}
	d, ok := cmds[name]
	return d, ok
}

// Groups returns all group names in sorted order.
func (r *Registry) Groups() []string {
	names := maps.Keys(r.groups)
	slices.Sort(names)
	return names
}

// CommandNames returns the command names registered in the group, sorted.
// The result is empty for an unknown group.
func (r *Registry) CommandNames(group string) []string {
	cmds, ok := r.groups[group]
	if !ok {
		return nil
	}
	names := maps.Keys(cmds)
	slices.Sort(names)
	return names
}

// GroupDescription returns the group-level description, empty for an
// unknown group.
func (r *Registry) GroupDescription(group string) string {
	return r.descs[group].Description
}
