package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
	"github.com/zetruc/pulse/internal/core/report"
)

func storedAnalysis() *domain.ProjectAnalysis {
	var r report.Report
	r.Part1.SentimentGlobal.Evaluation = "Positif"
	r.Part3.Visibilite.Analyses = []report.VisibilityAnalysis{
		{Question: "Q1", MentionProbable: "Oui", Concurrents: []string{"Alpha"}},
		{Question: "Q2", MentionProbable: "Non", Concurrents: []string{"Alpha", "Beta"}},
	}
	return &domain.ProjectAnalysis{
		ID:        "a1",
		ProjectID: "p1",
		Provider:  domain.ProviderOpenAI,
		Report:    r,
		RawText:   "{}",
		Prompt:    "prompt",
		Context:   domain.AnalysisContext{CompanyName: "Acme", Competitors: []string{"Alpha"}},
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAnalysisHandler_RunIncludesSummary(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalysisService{run: func(projectID string) (*domain.ProjectAnalysis, error) {
		return storedAnalysis(), nil
	}})

	c, rec := newContext(t, request{method: http.MethodPost, target: "/x", who: &owner, params: map[string]string{"id": "p1"}})
	if err := h.Run(c); err != nil {
		t.Fatalf("run: %v", err)
	}
	var body analysisResponse
	decode(t, rec, &body)
	if body.ID != "a1" || body.Prompt != "prompt" || body.Context.CompanyName != "Acme" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Summary.QuestionCount != 2 || body.Summary.MentionYes != 1 || body.Summary.MentionRate != 50 {
		t.Fatalf("unexpected summary %+v", body.Summary)
	}
	if body.Summary.CompetitorCount != 2 {
		t.Fatalf("expected 2 distinct competitors, got %+v", body.Summary)
	}
}

func TestAnalysisHandler_RunPropagatesConflict(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalysisService{run: func(string) (*domain.ProjectAnalysis, error) {
		return nil, domain.ErrAnalysisRunning
	}})

	c, _ := newContext(t, request{method: http.MethodPost, target: "/x", who: &owner, params: map[string]string{"id": "p1"}})
	if err := h.Run(c); !errors.Is(err, domain.ErrAnalysisRunning) {
		t.Fatalf("expected ErrAnalysisRunning, got %v", err)
	}
}

func TestAnalysisHandler_Overview(t *testing.T) {
	latest := storedAnalysis()
	h := NewAnalysisHandler(&stubAnalysisService{overview: func(string) (*ports.AnalysisOverview, error) {
		return &ports.AnalysisOverview{
			Latest:  latest,
			History: []ports.AnalysisHistoryItem{{ID: "a1", CreatedAt: latest.CreatedAt, Provider: domain.ProviderOpenAI}},
		}, nil
	}})

	c, rec := newContext(t, request{method: http.MethodGet, target: "/x", who: &owner, params: map[string]string{"id": "p1"}})
	if err := h.Overview(c); err != nil {
		t.Fatalf("overview: %v", err)
	}
	var body overviewResponse
	decode(t, rec, &body)
	if !body.CreatedAt.Equal(latest.CreatedAt) || len(body.History) != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Parsed.Part1.SentimentGlobal.Evaluation != "Positif" {
		t.Fatalf("parsed report missing: %+v", body.Parsed.Part1)
	}
}

func TestAnalysisHandler_Get(t *testing.T) {
	h := NewAnalysisHandler(&stubAnalysisService{get: func(projectID, analysisID string) (*domain.ProjectAnalysis, error) {
		if projectID != "p1" || analysisID != "a1" {
			return nil, domain.ErrAnalysisNotFound
		}
		return storedAnalysis(), nil
	}})

	c, rec := newContext(t, request{method: http.MethodGet, target: "/x", who: &owner,
		params: map[string]string{"id": "p1", "analysisId": "a1"}})
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(t, request{method: http.MethodGet, target: "/x", who: &owner,
		params: map[string]string{"id": "p1", "analysisId": "zz"}})
	if err := h.Get(c); !errors.Is(err, domain.ErrAnalysisNotFound) {
		t.Fatalf("expected ErrAnalysisNotFound, got %v", err)
	}
}

func TestAnalysisHandler_Quick(t *testing.T) {
	var got ports.QuickAnalysisInput
	h := NewAnalysisHandler(&stubAnalysisService{quick: func(in ports.QuickAnalysisInput) (string, error) {
		got = in
		return "Rapport", nil
	}})

	body := `{"projectName":"Acme","websiteUrl":"acme.fr","competitor1":"Alpha","city":"Lyon"}`
	c, rec := newContext(t, request{method: http.MethodPost, target: "/api/reputation/analyse", body: body, who: &owner})
	if err := h.Quick(c); err != nil {
		t.Fatalf("quick: %v", err)
	}
	if got.ProjectName != "Acme" || got.WebsiteURL != "acme.fr" || got.Competitor1 != "Alpha" || got.City != "Lyon" {
		t.Fatalf("unexpected input %+v", got)
	}
	var resp quickAnalysisResponse
	decode(t, rec, &resp)
	if resp.Analysis != "Rapport" {
		t.Fatalf("unexpected analysis %q", resp.Analysis)
	}
}
