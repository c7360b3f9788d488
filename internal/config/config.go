package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/dock"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/errors"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/logging"
	"github.com/firefly-engineering/firefly-harbor/packages/harbor-ctl/internal/port"
)

const (
	DefaultConfigFile = "harbor.toml"
	DefaultStateDir   = "."
	DefaultLogFile    = "port.log"
	DefaultSnapshot   = "port.json"
	DefaultDatabase   = "harbor.db"
	DefaultServerAddr = ":8080"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Duration is a time.Duration written as a string such as "5s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the harbor configuration from harbor.toml.
type Config struct {
	StateDir     string `toml:"state_dir"`
	Docks        []int  `toml:"docks"`
	DockChoice   string `toml:"dock_choice"`
	Berthing     string `toml:"berthing"`
	LogFile      string `toml:"log_file"`
	OverwriteLog bool   `toml:"overwrite_log"`

	Persistence Persistence `toml:"persistence"`
	Simulation  Simulation  `toml:"simulation"`
	LogWatch    LogWatch    `toml:"log_watch"`
	Server      Server      `toml:"server"`
}

// Persistence selects where snapshots are kept.
type Persistence struct {
	Backend  string `toml:"backend"`
	File     string `toml:"file"`
	Database string `toml:"database"`
}

// Simulation configures the simulation driver.
type Simulation struct {
	BoatsPerDay int      `toml:"boats_per_day"`
	Interval    Duration `toml:"interval"`
}

// LogWatch configures the audit log poller.
type LogWatch struct {
	Interval Duration `toml:"interval"`
}

// Server configures the HTTP front end.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StateDir:   DefaultStateDir,
		Docks:      []int{32, 32},
		DockChoice: port.DefaultDockChoice,
		Berthing:   dock.DefaultBerthing,
		LogFile:    DefaultLogFile,
		Persistence: Persistence{
			Backend:  BackendFile,
			File:     DefaultSnapshot,
			Database: DefaultDatabase,
		},
		Simulation: Simulation{
			BoatsPerDay: 5,
			Interval:    Duration{5 * time.Second},
		},
		LogWatch: LogWatch{Interval: Duration{2500 * time.Millisecond}},
		Server:   Server{Addr: DefaultServerAddr},
	}
}

// Load reads path on top of the defaults. A missing file yields the
// defaults; unknown keys are logged and ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logging.Debug("no config file, using defaults", "path", path)
			return Default(), nil
		}
		return nil, errors.ConfigError("failed to read config", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.StateDir != "" && !filepath.IsAbs(cfg.StateDir) {
		cfg.StateDir = filepath.Join(filepath.Dir(path), cfg.StateDir)
	}
	return cfg, nil
}

// Parse decodes a TOML document on top of the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.ConfigError("failed to parse config", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logging.Warn("ignoring unknown config keys", "keys", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var problems []string

	for i, size := range c.Docks {
		if size < 1 {
			problems = append(problems, fmt.Sprintf("docks[%d] must be positive (got %d)", i, size))
		}
	}
	if _, _, ok := port.LookupDockChoice(c.DockChoice); !ok {
		problems = append(problems, fmt.Sprintf("unknown dock_choice %q (have %s)", c.DockChoice, strings.Join(port.DockChoices(), ", ")))
	}
	if _, _, ok := dock.LookupBerthing(c.Berthing); !ok {
		problems = append(problems, fmt.Sprintf("unknown berthing %q (have %s)", c.Berthing, strings.Join(dock.BerthingAlgorithms(), ", ")))
	}
	switch c.Persistence.Backend {
	case BackendFile, BackendSQLite:
	default:
		problems = append(problems, fmt.Sprintf("unknown persistence backend %q", c.Persistence.Backend))
	}
	if c.Simulation.BoatsPerDay < 0 {
		problems = append(problems, "simulation.boats_per_day cannot be negative")
	}
	if c.Simulation.Interval.Duration <= 0 {
		problems = append(problems, "simulation.interval must be positive")
	}
	if c.LogWatch.Interval.Duration <= 0 {
		problems = append(problems, "log_watch.interval must be positive")
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return errors.ConfigError("invalid config: "+strings.Join(problems, "; "), nil)
	}
	return nil
}

// Resolve returns name inside the state directory. Names that would
// escape it are clamped inside.
func (c *Config) Resolve(name string) (string, error) {
	dir := c.StateDir
	if dir == "" {
		dir = DefaultStateDir
	}
	path, err := securejoin.SecureJoin(dir, name)
	if err != nil {
		return "", errors.ConfigError(fmt.Sprintf("cannot resolve %q in %s", name, dir), err)
	}
	return path, nil
}

// LogPath returns the audit log location, or "" when logging is off.
func (c *Config) LogPath() (string, error) {
	if c.LogFile == "" {
		return "", nil
	}
	return c.Resolve(c.LogFile)
}

// SnapshotPath returns the location of the snapshot file or database for
// the configured backend.
func (c *Config) SnapshotPath() (string, error) {
	if c.Persistence.Backend == BackendSQLite {
		return c.Resolve(c.Persistence.Database)
	}
	return c.Resolve(c.Persistence.File)
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return nil, errors.ConfigError("failed to encode config", err)
	}
	return []byte(sb.String()), nil
}
