package mapping

import (
	"sync"
)

// Store is the registry of named mapping profiles shared by every engine
// instance. Mutation only happens through Merge.
type Store struct {
	mu       sync.RWMutex
	mappings Mappings

	subMu       sync.Mutex
	subscribers map[uint64]func()
	nextID      uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		mappings:    make(Mappings),
		subscribers: make(map[uint64]func()),
	}
}

// Merge registers newMappings into the store.
//
// If override is set, or nothing has been registered yet, the store is
// replaced by newMappings. Otherwise profiles and devices missing from the
// store are inserted wholesale and, for devices present on both sides, each
// raw event entry of newMappings overwrites the stored one.
//
// Every subscriber is notified once the merge is complete.
func (s *Store) Merge(newMappings Mappings, override bool) {
	s.mu.Lock()
	if override || len(s.mappings) == 0 {
		s.mappings = newMappings.Clone()
		if s.mappings == nil {
			s.mappings = make(Mappings)
		}
	} else {
		mergeInto(s.mappings, newMappings)
	}
	s.mu.Unlock()

	s.notify()
}

func mergeInto(dst, src Mappings) {
	for name, profile := range src {
		existing, ok := dst[name]
		if !ok || existing == nil {
			dst[name] = profile.Clone()
			continue
		}

		for device, events := range profile {
			current, ok := existing[device]
			if !ok || current == nil {
				existing[device] = events.Clone()
				continue
			}

			for raw, semantic := range events {
				current[raw] = semantic
			}
		}
	}
}

// Subscribe registers fn to be called after every merge. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	handlers := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		handlers = append(handlers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// Has reports whether a profile with the given name is registered
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mappings[name]
	return ok
}

// Profile returns a copy of the named profile
func (s *Store) Profile(name string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.mappings[name]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Lookup returns the semantic event stored for a single profile, device and
// raw event key without copying the profile.
func (s *Store) Lookup(profile, device, raw string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	semantic, ok := s.mappings[profile][device][raw]
	return semantic, ok
}

// Names returns the registered profile names in sorted order
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mappings.Names()
}

// Len returns the number of registered profiles
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mappings)
}

// Snapshot returns a deep copy of the store content
func (s *Store) Snapshot() Mappings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mappings.Clone()
}
