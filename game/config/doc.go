// Package config provides the settings for a rusty-world process.
//
// The config package handles:
//   - Loading settings from a YAML file over built-in defaults
//   - Normalizing and validating the loaded values
//   - Building the fresh World used when no snapshot can be restored
//
// Configuration Format:
//
//	world:
//	  height: 20
//	  width: 40
//	  outer_wall: true
//	  tiles:
//	    - {tile: ChargePad, x: 10, y: 10}
//	robot:
//	  name: Rusty
//	  x: 5
//	  y: 5
//	  charge: 255
//	snapshot:
//	  store: file          # file | sqlite | postgres
//	  path: world.json
//	  dsn: ""
//	  autosave: 30s
//	server:
//	  host: localhost
//	  port: 8080
//	tui:
//	  redraw: 50ms
//	journal:
//	  dir: ""              # empty disables the change journal
//
// Usage:
//
//	cfg, err := config.Load("rustyworld.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	world := cfg.NewWorld()
package config
