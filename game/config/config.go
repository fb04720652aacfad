package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/rusty-world/game/engine"
	"github.com/wricardo/rusty-world/game/session"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Default snapshot locations, chosen by Normalize when no path is set
const (
	DefaultSnapshotFile = "world.json"
	DefaultSnapshotDB   = "world.db"
)

// Config holds every setting of a rusty-world process
type Config struct {
	World    WorldConfig    `yaml:"world"`
	Robot    RobotConfig    `yaml:"robot"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Server   ServerConfig   `yaml:"server"`
	TUI      TUIConfig      `yaml:"tui"`
	Journal  JournalConfig  `yaml:"journal"`
}

type WorldConfig struct {
	Height    uint32     `yaml:"height"`
	Width     uint32     `yaml:"width"`
	OuterWall bool       `yaml:"outer_wall"`
	Tiles     []TileSpec `yaml:"tiles,omitempty"`
}

// TileSpec seeds one tile of a fresh World
type TileSpec struct {
	Tile string `yaml:"tile"`
	X    int32  `yaml:"x"`
	Y    int32  `yaml:"y"`
}

// RobotConfig describes the robot driven from the terminal
type RobotConfig struct {
	Name   string `yaml:"name"`
	X      int32  `yaml:"x"`
	Y      int32  `yaml:"y"`
	Charge int    `yaml:"charge"`
}

type SnapshotConfig struct {
	Store    string        `yaml:"store"`
	Path     string        `yaml:"path"`
	DSN      string        `yaml:"dsn"`
	Autosave time.Duration `yaml:"autosave"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TUIConfig struct {
	Redraw time.Duration `yaml:"redraw"`
}

type JournalConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		World: WorldConfig{
			Height:    engine.DefaultHeight,
			Width:     engine.DefaultWidth,
			OuterWall: true,
		},
		Robot: RobotConfig{
			Name:   "Rusty",
			X:      5,
			Y:      5,
			Charge: engine.MaxCharge,
		},
		Snapshot: SnapshotConfig{
			Store: session.StoreFile,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		TUI: TUIConfig{
			Redraw: 50 * time.Millisecond,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Normalize trims values and fills unset ones with defaults
func (c *Config) Normalize() {
	def := Default()

	c.Robot.Name = strings.TrimSpace(c.Robot.Name)
	c.Snapshot.Store = strings.ToLower(strings.TrimSpace(c.Snapshot.Store))
	if c.Snapshot.Store == "" {
		c.Snapshot.Store = def.Snapshot.Store
	}
	c.Snapshot.Path = strings.TrimSpace(c.Snapshot.Path)
	if c.Snapshot.Path == "" {
		switch c.Snapshot.Store {
		case session.StoreSQLite:
			c.Snapshot.Path = DefaultSnapshotDB
		case session.StoreFile:
			c.Snapshot.Path = DefaultSnapshotFile
		}
	}
	c.Server.Host = strings.TrimSpace(c.Server.Host)
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.TUI.Redraw == 0 {
		c.TUI.Redraw = def.TUI.Redraw
	}
	c.Journal.Dir = strings.TrimSpace(c.Journal.Dir)
}

// Validate checks the settings. Every error wraps ErrInvalidConfig.
func (c Config) Validate() error {
	if c.World.Height == 0 || c.World.Width == 0 {
		return fmt.Errorf("%w: world dimensions must be positive, got %dx%d", ErrInvalidConfig, c.World.Height, c.World.Width)
	}
	if c.World.Height > engine.MaxDimension || c.World.Width > engine.MaxDimension {
		return fmt.Errorf("%w: world dimensions cannot exceed %d, got %dx%d", ErrInvalidConfig, engine.MaxDimension, c.World.Height, c.World.Width)
	}
	for i, seed := range c.World.Tiles {
		if _, err := engine.ParseTile(seed.Tile); err != nil {
			return fmt.Errorf("%w: world.tiles[%d]: %v", ErrInvalidConfig, i, err)
		}
	}

	if c.Robot.Name == "" {
		return fmt.Errorf("%w: robot name cannot be empty", ErrInvalidConfig)
	}
	if c.Robot.Charge < 0 || c.Robot.Charge > engine.MaxCharge {
		return fmt.Errorf("%w: robot charge must be between 0 and %d, got %d", ErrInvalidConfig, engine.MaxCharge, c.Robot.Charge)
	}

	switch c.Snapshot.Store {
	case session.StoreFile, session.StoreSQLite:
	case session.StorePostgres:
		if c.Snapshot.DSN == "" {
			return fmt.Errorf("%w: snapshot.dsn is required for the postgres store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown snapshot store %q (valid: %v)", ErrInvalidConfig, c.Snapshot.Store, session.StoreKinds)
	}
	if c.Snapshot.Autosave < 0 {
		return fmt.Errorf("%w: snapshot.autosave cannot be negative", ErrInvalidConfig)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port must be between 1 and 65535, got %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.TUI.Redraw < 0 {
		return fmt.Errorf("%w: tui.redraw cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// NewWorld builds the World used when no snapshot is available
func (c Config) NewWorld() *engine.World {
	world := engine.NewWorld(c.World.Height, c.World.Width)
	if c.World.OuterWall {
		world.AddOuterWall(engine.Wall)
	}
	for _, seed := range c.World.Tiles {
		tile, err := engine.ParseTile(seed.Tile)
		if err != nil {
			continue
		}
		world.AddTile(engine.NewPosition(seed.X, seed.Y), tile)
	}
	c.PlaceRobot(world)
	return world
}

// PlaceRobot adds the terminal robot to w unless a robot with its name is
// already present. It reports whether the robot was added.
func (c Config) PlaceRobot(w *engine.World) bool {
	if _, exists := w.Robot(c.Robot.Name); exists {
		return false
	}
	robot := engine.NewRobot(c.Robot.Name)
	robot.Position = engine.NewPosition(c.Robot.X, c.Robot.Y)
	robot.Charge = uint8(c.Robot.Charge)
	w.AddExistingRobot(robot)
	return true
}
