// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

// Package registry tracks the topic-id bindings a gateway has assigned to
// a client, so payloads can be published against names the application
// knows without re-registering on every wake cycle.
package registry

import (
	"sync"
)

// Registry is a bidirectional map of topic names to gateway-assigned
// topic ids, populated from REGACK and SUBACK responses.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]uint16
	byID   map[uint16]string
	store  Store // optional persistence backend
}

// Store is a persistence backend for topic bindings, letting a
// clean-session=0 node resume its ids across restarts.
type Store interface {

	// Set persists one binding.
	Set(name string, id uint16) error

	// Delete removes one binding by name.
	Delete(name string) error

	// All returns every persisted binding.
	All() (map[string]uint16, error)

	// Close releases the backend.
	Close() error
}

// New returns a Registry. A nil store keeps bindings in memory only;
// otherwise previously persisted bindings are loaded immediately.
func New(store Store) (*Registry, error) {
	r := &Registry{
		byName: map[string]uint16{},
		byID:   map[uint16]string{},
		store:  store,
	}

	if store != nil {
		bindings, err := store.All()
		if err != nil {
			return nil, err
		}

		for name, id := range bindings {
			r.byName[name] = id
			r.byID[id] = name
		}
	}

	return r, nil
}

// Bind records a topic binding reported by the gateway.
func (r *Registry) Bind(name string, id uint16) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.byName[name]; ok {
		delete(r.byID, prev)
	}

	r.byName[name] = id
	r.byID[id] = name

	if r.store != nil {
		return r.store.Set(name, id)
	}

	return nil
}

// Lookup returns the topic id bound to a name.
func (r *Registry) Lookup(name string) (uint16, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	return id, ok
}

// Name returns the topic name a gateway-assigned id refers to, used when
// resolving inbound publishes.
func (r *Registry) Name(id uint16) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name, ok := r.byID[id]
	return name, ok
}

// Unbind forgets a binding, typically after an unsubscribe.
func (r *Registry) Unbind(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byName[name]; ok {
		delete(r.byID, id)
		delete(r.byName, name)

		if r.store != nil {
			return r.store.Delete(name)
		}
	}

	return nil
}

// Len returns the number of bindings held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// Close releases the persistence backend, if any.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.store != nil {
		err := r.store.Close()
		r.store = nil
		return err
	}

	return nil
}
