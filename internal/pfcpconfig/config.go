// Package pfcpconfig loads and validates the engine's configuration: bind
// address, retry timers, TEID range policy, logging, and statistics
// reporting. The package only ever loads from a YAML path or an
// already-populated *viper.Viper, so an embedding application can layer
// its own flag or environment binding on top without this package owning
// a CLI surface.
package pfcpconfig

import (
	"fmt"
	"net"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full engine configuration tree.
type Config struct {
	Node    NodeConfig    `yaml:"node"    mapstructure:"node"`
	Timing  TimingConfig  `yaml:"timing"  mapstructure:"timing"`
	TEID    TEIDConfig    `yaml:"teid"    mapstructure:"teid"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Stats   StatsConfig   `yaml:"stats"   mapstructure:"stats"`
}

// NodeConfig is the bind address and socket sizing for this node.
type NodeConfig struct {
	BindAddress      string `yaml:"bindAddress"      mapstructure:"bindAddress"`
	PFCPPort         int    `yaml:"pfcpPort"         mapstructure:"pfcpPort"`
	SocketBufferSize int    `yaml:"socketBufferSize" mapstructure:"socketBufferSize"`
	MinWorkers       int    `yaml:"minWorkers"       mapstructure:"minWorkers"`
	MaxWorkers       int    `yaml:"maxWorkers"       mapstructure:"maxWorkers"`
	DispatchQueueLen int    `yaml:"dispatchQueueLen" mapstructure:"dispatchQueueLen"`
}

// TimingConfig holds the retry/heartbeat/activity-window timers,
// milliseconds for T1/heartbeatT1 and message counts for N1/heartbeatN1.
type TimingConfig struct {
	T1Ms               int `yaml:"t1Ms"               mapstructure:"t1Ms"`
	N1                 int `yaml:"n1"                 mapstructure:"n1"`
	HeartbeatT1Ms      int `yaml:"heartbeatT1Ms"      mapstructure:"heartbeatT1Ms"`
	HeartbeatN1        int `yaml:"heartbeatN1"        mapstructure:"heartbeatN1"`
	NbrActivityWindows int `yaml:"nbrActivityWindows" mapstructure:"nbrActivityWindows"`
	LenActivityWindowMs int `yaml:"lenActivityWindow" mapstructure:"lenActivityWindow"`
}

// TEIDConfig controls TEID-range partitioning among UP function instances.
type TEIDConfig struct {
	AssignTeidRange bool  `yaml:"assignTeidRange" mapstructure:"assignTeidRange"`
	NbrTeidRangeBits uint8 `yaml:"nbrTeidRangeBits" mapstructure:"nbrTeidRangeBits"`
}

// LoggingConfig controls the injected logrus entry's level and outputs.
type LoggingConfig struct {
	Level   string `yaml:"level"   mapstructure:"level"`
	Console bool   `yaml:"console" mapstructure:"console"`
	File    string `yaml:"file"    mapstructure:"file"`
}

// StatsConfig controls the in-process counter registry's periodic report.
type StatsConfig struct {
	Enabled           bool `yaml:"enabled"           mapstructure:"enabled"`
	ReportIntervalSec int  `yaml:"reportIntervalSec" mapstructure:"reportIntervalSec"`
}

// SetDefaults populates v with every key's default before a config file is
// read, so a partially-specified YAML document still produces a complete
// Config. pfcpPort defaults to the IANA-registered PFCP port 8805.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("node.bindAddress", "0.0.0.0")
	v.SetDefault("node.pfcpPort", 8805)
	v.SetDefault("node.socketBufferSize", 1<<20)
	v.SetDefault("node.minWorkers", 1)
	v.SetDefault("node.maxWorkers", 1)
	v.SetDefault("node.dispatchQueueLen", 256)

	v.SetDefault("timing.t1Ms", 1000)
	v.SetDefault("timing.n1", 3)
	v.SetDefault("timing.heartbeatT1Ms", 5000)
	v.SetDefault("timing.heartbeatN1", 3)
	v.SetDefault("timing.nbrActivityWindows", 4)
	v.SetDefault("timing.lenActivityWindow", 2500)

	v.SetDefault("teid.assignTeidRange", false)
	v.SetDefault("teid.nbrTeidRangeBits", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)

	v.SetDefault("stats.enabled", true)
	v.SetDefault("stats.reportIntervalSec", 30)
}

// Load reads configuration from a YAML file path, applying defaults first.
// An empty path returns the all-defaults configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("pfcpconfig: read %s: %w", path, err)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals configuration from a caller-populated Viper
// instance, letting an embedding application layer its own flag/env
// binding on top before handing control to the engine.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("pfcpconfig: unmarshal: %w", err)
	}
	return &cfg, nil
}

// Summary renders a human-readable description of the effective
// configuration, logged once at startup.
func (c *Config) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Configuration:\n")
	fmt.Fprintf(&sb, "  Node:      %s:%d (buf=%d, workers=%d-%d)\n",
		c.Node.BindAddress, c.Node.PFCPPort, c.Node.SocketBufferSize, c.Node.MinWorkers, c.Node.MaxWorkers)
	fmt.Fprintf(&sb, "  Timing:    T1=%dms N1=%d heartbeatT1=%dms heartbeatN1=%d\n",
		c.Timing.T1Ms, c.Timing.N1, c.Timing.HeartbeatT1Ms, c.Timing.HeartbeatN1)
	fmt.Fprintf(&sb, "  Activity:  %d windows x %dms\n", c.Timing.NbrActivityWindows, c.Timing.LenActivityWindowMs)
	fmt.Fprintf(&sb, "  TEID:      assign=%v bits=%d\n", c.TEID.AssignTeidRange, c.TEID.NbrTeidRangeBits)
	fmt.Fprintf(&sb, "  Logging:   level=%s console=%v file=%s\n", c.Logging.Level, c.Logging.Console, c.Logging.File)
	fmt.Fprintf(&sb, "  Stats:     enabled=%v interval=%ds\n", c.Stats.Enabled, c.Stats.ReportIntervalSec)
	return sb.String()
}

// BindAddr renders the node's bind address as "host:port" for socket setup
// and structured logging fields across the engine's constructors.
func (c *Config) BindAddr() string {
	return net.JoinHostPort(c.Node.BindAddress, fmt.Sprintf("%d", c.Node.PFCPPort))
}
