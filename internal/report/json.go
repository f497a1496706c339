package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/virtfit/virtfit/internal/model"
)

// JSONReporter outputs scoring records as JSON.
type JSONReporter struct {
	w io.Writer
}

type jsonOutput struct {
	Meta    ReportMeta     `json:"meta"`
	Records []model.Report `json:"records"`
}

func (r *JSONReporter) Report(ctx context.Context, records []model.Report, meta ReportMeta) error {
	output := jsonOutput{
		Meta:    meta,
		Records: records,
	}

	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
