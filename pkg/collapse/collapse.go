// Package collapse stores the per-row collapse flags of the sequence editor.
//
// Flags are keyed by [scene.ItemKey]. A missing flag means expanded. The
// row tree builder never reads a [Store] directly; callers take a
// [Snapshot] so one build observes one consistent set of flags:
//
//	store := collapse.NewStore()
//	store.Set(scene.ObjectItemKey(addr), true)
//	root, err := tree.Build(sheet, store.Snapshot())
package collapse

import (
	"maps"
	"sync"

	"github.com/matzehuels/seqtree/pkg/scene"
)

// Store holds collapse flags. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	flags map[scene.ItemKey]bool
	rev   uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{flags: make(map[scene.ItemKey]bool)}
}

// Get returns the flag for key and whether one is set.
func (s *Store) Get(key scene.ItemKey) (collapsed, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	collapsed, ok = s.flags[key]
	return collapsed, ok
}

// Set records the flag for key.
func (s *Store) Set(key scene.ItemKey, collapsed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.flags[key]; ok && cur == collapsed {
		return
	}
	s.flags[key] = collapsed
	s.rev++
}

// Toggle flips the flag for key (absent counts as expanded) and returns
// the new value.
func (s *Store) Toggle(key scene.ItemKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := !s.flags[key]
	s.flags[key] = v
	s.rev++
	return v
}

// Clear removes the flag for key, restoring the default.
func (s *Store) Clear(key scene.ItemKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flags[key]; ok {
		delete(s.flags, key)
		s.rev++
	}
}

// Revision increases every time a flag changes. Callers compare revisions
// to decide whether a rebuild is needed.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// Len returns the number of stored flags.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flags)
}

// Snapshot returns an immutable copy of the current flags, stamped with
// the revision they were read at.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{flags: maps.Clone(s.flags), rev: s.rev}
}

// Replace swaps in all flags from snap.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags = maps.Clone(snap.flags)
	if s.flags == nil {
		s.flags = make(map[scene.ItemKey]bool)
	}
	s.rev++
}

// Snapshot is a read-only view of collapse flags. The zero value has no
// flags.
type Snapshot struct {
	flags map[scene.ItemKey]bool
	rev   uint64
}

// SnapshotOf builds a snapshot from a map. The map is copied.
func SnapshotOf(flags map[scene.ItemKey]bool) Snapshot {
	return Snapshot{flags: maps.Clone(flags)}
}

// Revision returns the store revision the snapshot was taken at. Snapshots
// built with [SnapshotOf] report zero.
func (s Snapshot) Revision() uint64 { return s.rev }

// IsCollapsed reports the flag for key and whether one is set.
func (s Snapshot) IsCollapsed(key scene.ItemKey) (collapsed, ok bool) {
	collapsed, ok = s.flags[key]
	return collapsed, ok
}

// Len returns the number of flags.
func (s Snapshot) Len() int { return len(s.flags) }

// Flags returns a copy of the flags.
func (s Snapshot) Flags() map[scene.ItemKey]bool { return maps.Clone(s.flags) }
