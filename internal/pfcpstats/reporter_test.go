package pfcpstats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hieulven/pfcp-engine/internal/pfcpmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReportIncludesMessageAndSessionLines(t *testing.T) {
	c := NewCollector()
	c.RecordSent(pfcpmsg.HeartbeatRequest)
	c.RecordSessionEstablished()

	r := NewReporter(c, 0, "", nil)
	report := r.FormatReport()
	assert.Contains(t, report, "Messages:")
	assert.Contains(t, report, "Sessions:")
	assert.Contains(t, report, "Established: 1")
}

func TestExportJSONWritesFile(t *testing.T) {
	c := NewCollector()
	c.RecordSent(pfcpmsg.HeartbeatRequest)
	c.RecordSuccess(pfcpmsg.HeartbeatRequest, 5*time.Millisecond)

	path := filepath.Join(t.TempDir(), "stats.json")
	r := NewReporter(c, 0, path, nil)
	require.NoError(t, r.ExportJSON())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "HeartbeatRequest")
}

func TestExportJSONNoopWithoutFile(t *testing.T) {
	c := NewCollector()
	r := NewReporter(c, 0, "", nil)
	assert.NoError(t, r.ExportJSON())
}
