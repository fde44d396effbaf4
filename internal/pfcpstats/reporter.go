package pfcpstats

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Reporter formats a Collector's snapshots into a text report or a JSON
// export file, and can drive a periodic ticker that prints the report.
type Reporter struct {
	log        *logrus.Entry
	collector  *Collector
	interval   time.Duration
	exportFile string
}

// NewReporter builds a reporter over collector. A zero interval disables
// StartPeriodicReport; an empty exportFile disables ExportJSON.
func NewReporter(collector *Collector, interval time.Duration, exportFile string, log *logrus.Entry) *Reporter {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Reporter{log: log, collector: collector, interval: interval, exportFile: exportFile}
}

// StartPeriodicReport logs FormatReport on every tick until ctx is done.
func (r *Reporter) StartPeriodicReport(ctx context.Context) {
	if r.interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.log.Info(r.FormatReport())
			}
		}
	}()
}

// FormatReport renders a human-readable statistics report.
func (r *Reporter) FormatReport() string {
	snap := r.collector.TakeSnapshot()

	var sb strings.Builder
	fmt.Fprintf(&sb, "\n=== PFCP Engine Statistics (elapsed: %s) ===\n", snap.Duration.Round(time.Second))
	sb.WriteString("Messages:\n")

	msgs := append([]MessageSnapshot(nil), snap.Messages...)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Type < msgs[j].Type })
	for _, m := range msgs {
		fmt.Fprintf(&sb, "  %-30s sent=%-5d recv=%-5d success=%-5d fail=%-5d timeout=%-5d retransmit=%-5d\n",
			m.Type.String()+":", m.Sent, m.Received, m.Success, m.Failed, m.Timeout, m.Retransmit)
	}

	fmt.Fprintf(&sb, "Sessions:\n")
	fmt.Fprintf(&sb, "  Established: %d  |  Active: %d  |  Modified: %d  |  Deleted: %d  |  Failed: %d\n",
		snap.Sessions.Established, snap.Sessions.Active, snap.Sessions.Modified, snap.Sessions.Deleted, snap.Sessions.Failed)

	tc := snap.Transport
	if tc.DecodeErrors+tc.UnmatchedResponses+tc.DuplicateRequests+tc.VersionRejections > 0 {
		fmt.Fprintf(&sb, "Drops:\n")
		fmt.Fprintf(&sb, "  DecodeErr: %d  |  UnmatchedRsp: %d  |  DupReq: %d  |  BadVersion: %d\n",
			tc.DecodeErrors, tc.UnmatchedResponses, tc.DuplicateRequests, tc.VersionRejections)
	}

	if snap.ResponseTime.Max > 0 {
		fmt.Fprintf(&sb, "Response Times:\n")
		fmt.Fprintf(&sb, "  Min: %s  |  Avg: %s  |  Max: %s  |  P99: %s\n",
			snap.ResponseTime.Min.Round(time.Microsecond), snap.ResponseTime.Avg.Round(time.Microsecond),
			snap.ResponseTime.Max.Round(time.Microsecond), snap.ResponseTime.P99.Round(time.Microsecond))
	}

	if snap.Duration.Seconds() > 0 {
		fmt.Fprintf(&sb, "Throughput:\n  %.1f msg/s\n", float64(snap.TotalSent)/snap.Duration.Seconds())
	}
	sb.WriteString("================================================\n")
	return sb.String()
}

// ExportJSON writes the current snapshot to r.exportFile as JSON.
func (r *Reporter) ExportJSON() error {
	if r.exportFile == "" {
		return nil
	}
	snap := r.collector.TakeSnapshot()

	messages := make(map[string]interface{}, len(snap.Messages))
	for _, m := range snap.Messages {
		messages[m.Type.String()] = map[string]interface{}{
			"sent": m.Sent, "received": m.Received, "success": m.Success,
			"failed": m.Failed, "timeout": m.Timeout, "retransmit": m.Retransmit,
		}
	}

	export := map[string]interface{}{
		"duration_sec": snap.Duration.Seconds(),
		"messages":     messages,
		"sessions": map[string]interface{}{
			"established": snap.Sessions.Established,
			"modified":    snap.Sessions.Modified,
			"deleted":     snap.Sessions.Deleted,
			"failed":      snap.Sessions.Failed,
			"active":      snap.Sessions.Active,
		},
		"response_times_ms": map[string]interface{}{
			"min": float64(snap.ResponseTime.Min) / float64(time.Millisecond),
			"avg": float64(snap.ResponseTime.Avg) / float64(time.Millisecond),
			"max": float64(snap.ResponseTime.Max) / float64(time.Millisecond),
			"p99": float64(snap.ResponseTime.P99) / float64(time.Millisecond),
		},
	}
	if snap.Duration.Seconds() > 0 {
		export["throughput_msg_per_sec"] = float64(snap.TotalSent) / snap.Duration.Seconds()
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("pfcpstats: marshal report: %w", err)
	}
	if err := os.WriteFile(r.exportFile, data, 0644); err != nil {
		return fmt.Errorf("pfcpstats: write %s: %w", r.exportFile, err)
	}
	r.log.WithField("file", r.exportFile).Info("statistics exported to JSON")
	return nil
}
