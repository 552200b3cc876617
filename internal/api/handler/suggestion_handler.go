package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

const (
	suggestDomains     = "domains"
	suggestCompetitors = "competitors"
)

type suggestRequest struct {
	Type       string `json:"type"       validate:"required"`
	DomainName string `json:"domainName"`
}

type domainSuggestionsResponse struct {
	Items []string `json:"items"`
}

// SuggestionHandler proposes domains and competitors for a project.
type SuggestionHandler struct {
	service ports.SuggestionService
}

func NewSuggestionHandler(service ports.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

// Suggest handles POST /api/projects/:id/domains/suggest.
//
// @Summary      Suggest business domains or competitors
// @Tags         domains
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Project id"
// @Param        body  body      suggestRequest  true  "Suggestion type"
// @Success      200   {object}  ports.CompetitorSuggestions
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/projects/{id}/domains/suggest [post]
func (h *SuggestionHandler) Suggest(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req suggestRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	switch strings.TrimSpace(req.Type) {
	case suggestDomains:
		items, err := h.service.SuggestDomains(ctx, p, c.Param("id"))
		if err != nil {
			return err
		}
		if items == nil {
			items = []string{}
		}
		return c.JSON(http.StatusOK, domainSuggestionsResponse{Items: items})
	case suggestCompetitors:
		if strings.TrimSpace(req.DomainName) == "" {
			return domain.InvalidInput("domainName is required")
		}
		out, err := h.service.SuggestCompetitors(ctx, p, c.Param("id"), req.DomainName)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, out)
	default:
		return domain.InvalidInput("unsupported suggestion type")
	}
}
