// registry.go -
// Copyright (C) 2026  The nobby authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package expand

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps construct names to handlers.  Commands and
// environments share one name space; the name of a command does not
// include the backslash.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	frozen   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register installs h as the handler for name.
func (reg *Registry) Register(name string, h Handler) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.frozen {
		return fmt.Errorf("register %q: %w", name, ErrFrozen)
	}
	if _, exists := reg.handlers[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateHandler)
	}
	reg.handlers[name] = h
	return nil
}

// Lookup returns the handler for name, or nil if the construct is to
// be rendered as an image.
func (reg *Registry) Lookup(name string) Handler {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.handlers[name]
}

// Freeze prevents any further registrations.
func (reg *Registry) Freeze() {
	reg.mu.Lock()
	reg.frozen = true
	reg.mu.Unlock()
}

// Names returns the sorted list of registered names.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	res := make([]string, 0, len(reg.handlers))
	for name := range reg.handlers {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
