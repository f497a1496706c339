package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/virtfit/virtfit/internal/model"
)

// TableReporter outputs scoring records as a formatted terminal table.
type TableReporter struct {
	w io.Writer
}

func (r *TableReporter) Report(ctx context.Context, records []model.Report, meta ReportMeta) error {
	fmt.Fprintf(r.w, "\n")
	fmt.Fprintf(r.w, "virtfit experiment results\n")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(r.w, "Run:        %s\n", meta.RunID)
	fmt.Fprintf(r.w, "Seed:       %d\n", meta.Seed)
	fmt.Fprintf(r.w, "Algorithms: %s\n", strings.Join(meta.Algorithms, ", "))
	fmt.Fprintf(r.w, "Scales:     %s\n", strings.Join(meta.Scales, ", "))
	if meta.ResultsPath != "" {
		fmt.Fprintf(r.w, "Results:    %s\n", meta.ResultsPath)
	}
	fmt.Fprintf(r.w, "%s\n\n", strings.Repeat("=", 60))

	if len(records) == 0 {
		fmt.Fprintf(r.w, "No results available.\n")
		return nil
	}

	fmt.Fprintf(r.w, "%-22s %-7s %6s %8s %6s %6s %7s %6s %6s %4s %9s\n",
		"Algorithm", "Scale", "Hosts", "Energy", "CPU%", "Mem%", "Placed", "Frag", "CV", "SLA", "Time")
	fmt.Fprintf(r.w, "%s\n", strings.Repeat("-", 100))

	for _, rec := range records {
		fmt.Fprintf(r.w, "%-22s %-7s %6d %8.1f %5.1f%% %5.1f%% %6.1f%% %6.3f %6.3f %4d %8.3fs\n",
			rec.Algorithm,
			rec.Scale,
			rec.ActivePMs,
			rec.TotalEnergy,
			rec.AvgCPUUtilization*100,
			rec.AvgMemoryUtilization*100,
			rec.PlacementRate*100,
			rec.FragmentationScore,
			rec.LoadBalanceScore,
			rec.SLAViolations,
			rec.ExecutionTime)
	}
	fmt.Fprintf(r.w, "\n")

	return nil
}
