package report

import (
	"context"
	"io"
	"time"

	"github.com/virtfit/virtfit/internal/model"
)

// Reporter formats and writes scoring records to an output destination.
type Reporter interface {
	Report(ctx context.Context, records []model.Report, meta ReportMeta) error
}

// ReportMeta contains contextual metadata for the report.
type ReportMeta struct {
	RunID       string
	Seed        int64
	Algorithms  []string
	Scales      []string
	GeneratedAt time.Time
	ResultsPath string
}

// NewReporter creates a reporter for the given format writing to w.
func NewReporter(format string, w io.Writer) Reporter {
	switch format {
	case "json":
		return &JSONReporter{w: w}
	case "csv":
		return &CSVReporter{w: w}
	default:
		return &TableReporter{w: w}
	}
}
