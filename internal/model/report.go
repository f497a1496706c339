package model

// Report is the scoring record derived from one Solution. It is computed on
// demand by the evaluator and persisted to the results store; it is never
// written back onto the Solution. Field names match the record format the
// external plotting tooling reads.
type Report struct {
	RunID string `json:"run_id,omitempty"`

	ActivePMs            int     `json:"active_pms"`
	TotalEnergy          float64 `json:"total_energy"`
	AvgCPUUtilization    float64 `json:"avg_cpu_utilization"`
	AvgMemoryUtilization float64 `json:"avg_memory_utilization"`
	PlacementRate        float64 `json:"placement_rate"`
	FragmentationScore   float64 `json:"fragmentation_score"`
	LoadBalanceScore     float64 `json:"load_balance_score"`
	SLAViolations        int     `json:"sla_violations"`

	// Wall-clock seconds the producing algorithm ran.
	ExecutionTime float64 `json:"execution_time"`

	Algorithm string `json:"algorithm"`
	Scale     string `json:"scale"`
}
