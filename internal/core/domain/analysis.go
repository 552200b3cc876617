package domain

import (
	"time"

	"github.com/zetruc/pulse/internal/core/report"
)

// AnalysisContext records the inputs used to build an analysis prompt.
type AnalysisContext struct {
	CompanyName string   `json:"companyName"`
	City        string   `json:"city,omitempty"`
	Website     string   `json:"website,omitempty"`
	Competitors []string `json:"competitors"`
}

// ProjectAnalysis is one stored reputation report run.
type ProjectAnalysis struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"projectId"`
	Provider  Provider        `json:"provider"`
	Model     string          `json:"model"`
	Report    report.Report   `json:"report"`
	Raw       any             `json:"raw,omitempty"`
	RawText   string          `json:"rawText,omitempty"`
	Prompt    string          `json:"prompt,omitempty"`
	Context   AnalysisContext `json:"context"`
	CreatedAt time.Time       `json:"createdAt"`
}
