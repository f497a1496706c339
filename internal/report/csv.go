package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/virtfit/virtfit/internal/model"
)

// CSVReporter outputs scoring records as CSV rows, one per run.
type CSVReporter struct {
	w io.Writer
}

func (r *CSVReporter) Report(ctx context.Context, records []model.Report, meta ReportMeta) error {
	cw := csv.NewWriter(r.w)

	header := []string{
		"run_id", "algorithm", "scale", "active_pms", "total_energy",
		"avg_cpu_utilization", "avg_memory_utilization", "placement_rate",
		"fragmentation_score", "load_balance_score", "sla_violations",
		"execution_time",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.RunID,
			rec.Algorithm,
			rec.Scale,
			strconv.Itoa(rec.ActivePMs),
			strconv.FormatFloat(rec.TotalEnergy, 'f', -1, 64),
			strconv.FormatFloat(rec.AvgCPUUtilization, 'f', -1, 64),
			strconv.FormatFloat(rec.AvgMemoryUtilization, 'f', -1, 64),
			strconv.FormatFloat(rec.PlacementRate, 'f', -1, 64),
			strconv.FormatFloat(rec.FragmentationScore, 'f', -1, 64),
			strconv.FormatFloat(rec.LoadBalanceScore, 'f', -1, 64),
			strconv.Itoa(rec.SLAViolations),
			strconv.FormatFloat(rec.ExecutionTime, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
