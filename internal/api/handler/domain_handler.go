package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

// DomainHandler serves the business domains of a project.
type DomainHandler struct {
	service ports.DomainService
}

func NewDomainHandler(service ports.DomainService) *DomainHandler {
	return &DomainHandler{service: service}
}

// List handles GET /api/projects/:id/domains.
//
// @Summary      List project domains
// @Tags         domains
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Project id"
// @Success      200  {array}   domain.BusinessDomain
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/projects/{id}/domains [get]
func (h *DomainHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	domains, err := h.service.List(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	if domains == nil {
		domains = []*domain.BusinessDomain{}
	}
	return c.JSON(http.StatusOK, domains)
}

// Create handles POST /api/projects/:id/domains.
//
// @Summary      Create a domain
// @Tags         domains
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Project id"
// @Param        body  body      createDomainRequest  true  "Domain"
// @Success      201   {object}  idResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/projects/{id}/domains [post]
func (h *DomainHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createDomainRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	d, err := h.service.Create(c.Request().Context(), p, c.Param("id"), ports.CreateDomainInput{
		Name:        req.Name,
		Notes:       req.Notes,
		Competitors: domain.ParseCompetitors(req.Competitors),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, idResponse{ID: d.ID})
}

// Get handles GET /api/projects/:id/domains/:domainId.
//
// @Summary      Get a domain
// @Tags         domains
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true  "Project id"
// @Param        domainId  path      string  true  "Domain id"
// @Success      200       {object}  domain.BusinessDomain
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/projects/{id}/domains/{domainId} [get]
func (h *DomainHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	d, err := h.service.Get(c.Request().Context(), p, c.Param("id"), c.Param("domainId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Update handles PATCH /api/projects/:id/domains/:domainId.
//
// @Summary      Update a domain
// @Tags         domains
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string               true  "Project id"
// @Param        domainId  path      string               true  "Domain id"
// @Param        body      body      updateDomainRequest  true  "Fields to change"
// @Success      200       {object}  domain.BusinessDomain
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/projects/{id}/domains/{domainId} [patch]
func (h *DomainHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateDomainRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	in, err := req.toInput()
	if err != nil {
		return err
	}
	d, err := h.service.Update(c.Request().Context(), p, c.Param("id"), c.Param("domainId"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Delete handles DELETE /api/projects/:id/domains/:domainId.
//
// @Summary      Delete a domain
// @Tags         domains
// @Security     BearerAuth
// @Param        id        path  string  true  "Project id"
// @Param        domainId  path  string  true  "Domain id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/projects/{id}/domains/{domainId} [delete]
func (h *DomainHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id"), c.Param("domainId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
