package pfcpconfig

import (
	"fmt"
	"net"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks the configuration for internally-inconsistent or
// out-of-range values, accumulating every violation it finds rather than
// stopping at the first so a bad config file is fixed in one pass.
func (c *Config) Validate() error {
	var errs []string

	if c.Node.BindAddress != "" && c.Node.BindAddress != "0.0.0.0" {
		if net.ParseIP(c.Node.BindAddress) == nil {
			errs = append(errs, fmt.Sprintf("node.bindAddress %q is not a valid IP address", c.Node.BindAddress))
		}
	}
	if c.Node.PFCPPort < 1 || c.Node.PFCPPort > 65535 {
		errs = append(errs, fmt.Sprintf("node.pfcpPort %d out of range [1,65535]", c.Node.PFCPPort))
	}
	if c.Node.SocketBufferSize < 0 {
		errs = append(errs, "node.socketBufferSize must be non-negative")
	}
	if c.Node.MinWorkers < 1 {
		errs = append(errs, "node.minWorkers must be at least 1")
	}
	if c.Node.MaxWorkers < c.Node.MinWorkers {
		errs = append(errs, fmt.Sprintf("node.maxWorkers (%d) must be >= node.minWorkers (%d)", c.Node.MaxWorkers, c.Node.MinWorkers))
	}
	if c.Node.DispatchQueueLen < 1 {
		errs = append(errs, "node.dispatchQueueLen must be at least 1")
	}

	if c.Timing.T1Ms <= 0 {
		errs = append(errs, "timing.t1Ms must be positive")
	}
	if c.Timing.N1 < 0 {
		errs = append(errs, "timing.n1 must be non-negative")
	}
	if c.Timing.HeartbeatT1Ms <= 0 {
		errs = append(errs, "timing.heartbeatT1Ms must be positive")
	}
	if c.Timing.HeartbeatN1 < 0 {
		errs = append(errs, "timing.heartbeatN1 must be non-negative")
	}
	if c.Timing.NbrActivityWindows < 1 {
		errs = append(errs, "timing.nbrActivityWindows must be at least 1")
	}
	if c.Timing.LenActivityWindowMs <= 0 {
		errs = append(errs, "timing.lenActivityWindow must be positive")
	}

	if c.TEID.NbrTeidRangeBits > 7 {
		errs = append(errs, fmt.Sprintf("teid.nbrTeidRangeBits %d out of range [0,7]", c.TEID.NbrTeidRangeBits))
	}
	if c.TEID.AssignTeidRange && c.TEID.NbrTeidRangeBits == 0 {
		errs = append(errs, "teid.nbrTeidRangeBits must be > 0 when teid.assignTeidRange is enabled")
	}

	if c.Logging.Level != "" && !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of trace|debug|info|warn|error", c.Logging.Level))
	}

	if c.Stats.Enabled && c.Stats.ReportIntervalSec < 1 {
		errs = append(errs, "stats.reportIntervalSec must be at least 1 when stats.enabled is true")
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
}
