package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
	"github.com/zetruc/pulse/internal/core/report"
)

type analysisResponse struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"createdAt"`
	Result    report.Report          `json:"result"`
	Raw       any                    `json:"raw"`
	RawText   string                 `json:"rawText"`
	Prompt    string                 `json:"prompt"`
	Context   domain.AnalysisContext `json:"context"`
	Summary   report.Summary         `json:"summary"`
}

func toAnalysisResponse(a *domain.ProjectAnalysis) analysisResponse {
	return analysisResponse{
		ID:        a.ID,
		CreatedAt: a.CreatedAt,
		Result:    a.Report,
		Raw:       a.Raw,
		RawText:   a.RawText,
		Prompt:    a.Prompt,
		Context:   a.Context,
		Summary:   report.Summarize(&a.Report),
	}
}

type overviewResponse struct {
	Parsed    report.Report               `json:"parsed"`
	CreatedAt time.Time                   `json:"createdAt"`
	History   []ports.AnalysisHistoryItem `json:"history"`
}

type quickAnalysisRequest struct {
	ProjectName string `json:"projectName"`
	WebsiteURL  string `json:"websiteUrl"`
	Competitor1 string `json:"competitor1"`
	Competitor2 string `json:"competitor2"`
	City        string `json:"city"`
}

type quickAnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// AnalysisHandler runs and serves reputation reports.
type AnalysisHandler struct {
	service ports.AnalysisService
}

func NewAnalysisHandler(service ports.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Run handles POST /api/projects/:id/analysis.
//
// @Summary      Run a reputation analysis
// @Tags         analysis
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  analysisResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /api/projects/{id}/analysis [post]
func (h *AnalysisHandler) Run(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	a, err := h.service.Run(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalysisResponse(a))
}

// Overview handles GET /api/projects/:id/analysis.
//
// @Summary      Latest analysis and run history
// @Tags         analysis
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {object}  overviewResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/projects/{id}/analysis [get]
func (h *AnalysisHandler) Overview(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ov, err := h.service.Overview(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	history := ov.History
	if history == nil {
		history = []ports.AnalysisHistoryItem{}
	}
	return c.JSON(http.StatusOK, overviewResponse{
		Parsed:    ov.Latest.Report,
		CreatedAt: ov.Latest.CreatedAt,
		History:   history,
	})
}

// Get handles GET /api/projects/:id/analyses/:analysisId.
//
// @Summary      Get a stored analysis
// @Tags         analysis
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true  "Project id"
// @Param        analysisId  path      string  true  "Analysis id"
// @Success      200         {object}  analysisResponse
// @Failure      404         {object}  errorResponse
// @Router       /api/projects/{id}/analyses/{analysisId} [get]
func (h *AnalysisHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	a, err := h.service.Get(c.Request().Context(), p, c.Param("id"), c.Param("analysisId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalysisResponse(a))
}

// Quick handles POST /api/reputation/analyse, the free-text report.
//
// @Summary      Quick free-text analysis
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      quickAnalysisRequest  true  "Brand"
// @Success      200   {object}  quickAnalysisResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/reputation/analyse [post]
func (h *AnalysisHandler) Quick(c echo.Context) error {
	var req quickAnalysisRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	text, err := h.service.Quick(c.Request().Context(), ports.QuickAnalysisInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quickAnalysisResponse{Analysis: text})
}
