package pfcpconfig

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsProduceValidConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8805, cfg.Node.PFCPPort)
	assert.Equal(t, 1000, cfg.Timing.T1Ms)
	assert.Equal(t, 3, cfg.Timing.N1)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithViperOverridesDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("node.pfcpPort", 9000)
	v.Set("timing.t1Ms", 250)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Node.PFCPPort)
	assert.Equal(t, 250, cfg.Timing.T1Ms)
	assert.NoError(t, cfg.Validate())
}

func TestValidateAccumulatesAllErrors(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Node.PFCPPort = 0
	cfg.Timing.T1Ms = 0
	cfg.TEID.NbrTeidRangeBits = 9
	cfg.Logging.Level = "verbose"

	err = cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "node.pfcpPort")
	assert.Contains(t, msg, "timing.t1Ms")
	assert.Contains(t, msg, "teid.nbrTeidRangeBits")
	assert.Contains(t, msg, "logging.level")
}

func TestValidateRejectsRangeAssignmentWithZeroBits(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.TEID.AssignTeidRange = true
	cfg.TEID.NbrTeidRangeBits = 0

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nbrTeidRangeBits must be > 0")
}

func TestBindAddrFormatsHostPort(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Node.BindAddress = "192.0.2.1"
	cfg.Node.PFCPPort = 8805
	assert.Equal(t, "192.0.2.1:8805", cfg.BindAddr())
}

func TestSummaryIncludesKeySections(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	s := cfg.Summary()
	assert.Contains(t, s, "Node:")
	assert.Contains(t, s, "Timing:")
	assert.Contains(t, s, "TEID:")
	assert.Contains(t, s, "Logging:")
	assert.Contains(t, s, "Stats:")
}
