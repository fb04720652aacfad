// Package session owns the single shared World and keeps it durable.
//
// The session package implements:
//   - The shared-state guard every actor goes through to read or mutate the World
//   - Loading the World from a snapshot store at startup
//   - Saving and periodic autosave of the World
//   - Snapshot stores backed by a JSON file, SQLite or PostgreSQL
//
// Core Types:
//
// Manager holds the only *engine.World behind a mutex. Read and Write run a
// caller supplied function synchronously under the lock; nothing may keep a
// reference to the World after the function returns.
//
// SnapshotStore is the persistence backend. Stores deal in encoded snapshot
// documents (see package snapshot) so the Manager never holds its lock while
// doing I/O.
//
// Usage:
//
//	store, err := session.OpenStore(session.StoreFile, "world.json", "")
//	if err != nil {
//		log.Fatal(err)
//	}
//	manager := session.NewManager(store)
//	manager.Load(func() *engine.World { return engine.NewWorld(20, 40) })
//
//	manager.Write(func(w *engine.World) {
//		w.AddRobot("karl")
//	})
//
//	if err := manager.Save(); err != nil {
//		log.Printf("[SNAPSHOT] save failed: %v", err)
//	}
package session
