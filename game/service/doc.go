// Package service provides the remote interface semantics for the shared World.
//
// The service package implements:
//   - Adding robots and tiles
//   - Robot position queries and world dimensions
//   - Validated robot movement and the clamped interactive nudge
//   - Change notifications fanned out to any number of listeners
//
// Core Interfaces:
//
// WorldService is the interface every transport (REST, MCP, terminal loop)
// talks to. WorldGuard is the shared-state guard it runs against, implemented
// by session.Manager. Notifier receives RobotChanged and TileChanged events.
//
// Concurrency:
//
// Each operation holds the guard only for its synchronous read or mutation.
// Notifications are emitted after the guard is released, so a slow listener
// never blocks the other actors.
//
// Usage:
//
//	manager := session.NewManager(store)
//	worldService := service.NewWorldService(manager, service.Notifiers{hub, journal})
//
//	if _, err := worldService.AddRobot(ctx, "karl"); err != nil {
//		log.Fatal(err)
//	}
//	x, y, err := worldService.GetRobot(ctx, "karl")
//
// Errors:
//
// Failures wrap ErrNotFound, ErrInvalidArgument or engine.ErrTooFar and are
// matched with errors.Is at the transport boundary.
package service
