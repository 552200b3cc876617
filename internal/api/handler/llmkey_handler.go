package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

type saveKeyRequest struct {
	Provider string `json:"provider" validate:"required"`
	APIKey   string `json:"apiKey"   validate:"required"`
}

type keyResponse struct {
	Provider  domain.Provider `json:"provider"`
	Last4     string          `json:"last4"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toKeyResponse(k *domain.LLMKey) keyResponse {
	return keyResponse{Provider: k.Provider, Last4: k.Last4, UpdatedAt: k.UpdatedAt}
}

func provider(s string) domain.Provider {
	return domain.Provider(strings.ToUpper(strings.TrimSpace(s)))
}

// LLMKeyHandler manages the encrypted provider keys.
type LLMKeyHandler struct {
	service ports.LLMKeyService
}

func NewLLMKeyHandler(service ports.LLMKeyService) *LLMKeyHandler {
	return &LLMKeyHandler{service: service}
}

// List handles GET /api/admin/llm-keys. Keys are never decrypted here.
//
// @Summary      List configured LLM keys
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   keyResponse
// @Router       /api/admin/llm-keys [get]
func (h *LLMKeyHandler) List(c echo.Context) error {
	keys, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]keyResponse, 0, len(keys))
	for _, k := range keys {
		out = append(out, toKeyResponse(k))
	}
	return c.JSON(http.StatusOK, out)
}

// Save handles POST /api/admin/llm-keys.
//
// @Summary      Store or replace an LLM key
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      saveKeyRequest  true  "Provider key"
// @Success      201   {object}  keyResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/admin/llm-keys [post]
func (h *LLMKeyHandler) Save(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req saveKeyRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	key, err := h.service.Save(c.Request().Context(), p, provider(req.Provider), req.APIKey)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toKeyResponse(key))
}

// Delete handles DELETE /api/admin/llm-keys/:provider.
//
// @Summary      Remove an LLM key
// @Tags         admin
// @Security     BearerAuth
// @Param        provider  path  string  true  "OPENAI or GEMINI"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Router       /api/admin/llm-keys/{provider} [delete]
func (h *LLMKeyHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), provider(c.Param("provider"))); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
