package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/snapshot"
)

// Manager guards the shared World. All access from the remote interface and
// the terminal loop goes through Read and Write.
type Manager struct {
	mu    sync.Mutex
	world *engine.World

	// saveMu orders store writes so an older document never overwrites a newer one
	saveMu sync.Mutex
	store  SnapshotStore
}

// NewManager creates a manager holding an empty default-sized World. store may
// be nil, in which case Save is a no-op.
func NewManager(store SnapshotStore) *Manager {
	return &Manager{
		world: engine.NewWorld(engine.DefaultHeight, engine.DefaultWidth),
		store: store,
	}
}

// NewManagerWithWorld creates a manager around an existing World
func NewManagerWithWorld(world *engine.World, store SnapshotStore) *Manager {
	return &Manager{world: world, store: store}
}

// Load replaces the World with the stored snapshot. When there is no snapshot,
// or it cannot be read or decoded, the World built by fresh is used instead.
// It reports whether a snapshot was restored.
func (m *Manager) Load(fresh func() *engine.World) bool {
	world, err := m.restore()
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			log.Printf("[SNAPSHOT] no snapshot found, starting fresh world")
		} else {
			log.Printf("[SNAPSHOT] failed to restore snapshot, starting fresh world: %v", err)
		}
		world = fresh()
	}

	m.mu.Lock()
	m.world = world
	m.mu.Unlock()

	if err == nil {
		log.Printf("[SNAPSHOT] restored world %dx%d with %d robots", world.Height(), world.Width(), len(world.Robots()))
	}
	return err == nil
}

func (m *Manager) restore() (*engine.World, error) {
	if m.store == nil {
		return nil, ErrSnapshotNotFound
	}
	data, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	return snapshot.Decode(data)
}

// Read runs fn with the World locked. fn must not retain the World.
func (m *Manager) Read(fn func(w *engine.World)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.world)
}

// Write runs fn with the World locked for mutation. fn must not retain the World.
func (m *Manager) Write(fn func(w *engine.World)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.world)
}

// Encode returns the current snapshot document
func (m *Manager) Encode() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot.Encode(m.world)
}

// Save persists the World. The document is encoded under the lock and written
// to the store after the lock is released.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil // No persistence configured
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	doc, err := m.Encode()
	if err != nil {
		return err
	}
	if err := m.store.Save(doc); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Autosave saves the World every interval until ctx is done. Save failures are
// logged and retried on the next tick. A zero interval disables autosave.
func (m *Manager) Autosave(ctx context.Context, interval time.Duration) error {
	if interval <= 0 || m.store == nil {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := m.Save(); err != nil {
				log.Printf("[SNAPSHOT] autosave failed: %v", err)
			}
		}
	}
}

// Store returns the configured snapshot store, or nil
func (m *Manager) Store() SnapshotStore {
	return m.store
}

// Close releases the snapshot store
func (m *Manager) Close() error {
	if m.store == nil {
		return nil
	}
	return m.store.Close()
}
