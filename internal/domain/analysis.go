package domain

// Basis identifies which measured quantity a comparison was computed on.
type Basis string

const (
	BasisKWh   Basis = "kwh"
	BasisMoney Basis = "money"
	BasisNone  Basis = "none"
)

// Action is one recommended mitigation: what to do, why it helps, and a
// concrete one-to-two-day instruction.
type Action struct {
	Title string `json:"title"`
	Why   string `json:"why"`
	How   string `json:"how"`
}

// AnalysisMeta is the redacted payload written to the audit log for a
// completed analysis.
type AnalysisMeta struct {
	Basis Basis    `json:"basis"`
	Pct   *float64 `json:"pct"`
	Spike bool     `json:"spike"`
}

// AnalysisResult is the ephemeral outcome of one analysis run.
type AnalysisResult struct {
	Spike    bool
	Headline string
	Reasons  []string
	Actions  []Action
	Meta     AnalysisMeta
}

// SavingsResult is the outcome of a before/after savings computation.
// Ok is false when the inputs were insufficient, with Msg explaining why.
type SavingsResult struct {
	Ok           bool
	Msg          string
	BeforePerDay float64
	AfterPerDay  float64
	DeltaKWh     float64
	Pct          float64
	DeltaMoney   *float64
}
