// File: bench/report.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Report rendering: an aligned text table for terminals and JSON for tooling.

package bench

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/control"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Report is the outcome of one benchmark run.
type Report struct {
	Version string           `json:"version,omitempty"`
	Started time.Time        `json:"started"`
	Host    control.HostInfo `json:"host"`
	Results []Result         `json:"results"`
}

// NewReport bundles results with a description of the host.
func NewReport(version string, started time.Time, host control.HostInfo, results []Result) *Report {
	return &Report{
		Version: version,
		Started: started,
		Host:    host,
		Results: results,
	}
}

// Write renders the report in the given format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText:
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	}
	return api.NewError(api.ErrCodeInvalidArgument, "bench: unknown report format").
		WithContext("format", format)
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := gojson.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteText writes a host header followed by one row per result.
func (r *Report) WriteText(w io.Writer) error {
	h := r.Host
	if _, err := fmt.Fprintf(w, "host: %s/%s %s, %d cpus (GOMAXPROCS %d)", h.OS, h.Arch, h.GoVersion, h.LogicalCPUs, h.GOMAXPROCS); err != nil {
		return err
	}
	if h.CPUModel != "" {
		fmt.Fprintf(w, ", %s", h.CPUModel)
	}
	if h.MemoryTotal > 0 {
		fmt.Fprintf(w, ", %d MiB", h.MemoryTotal>>20)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SCENARIO\tSTRATEGY\tWORKERS\tOPS\tELAPSED\tNS/OP\tFALLBACKS\t")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%.1f\t%d\t\n",
			res.Scenario, res.Strategy, res.Workers, res.Ops,
			res.Elapsed.Round(time.Microsecond), res.NsPerOp, res.Fallbacks)
	}
	return tw.Flush()
}
