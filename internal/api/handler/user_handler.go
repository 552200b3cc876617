package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type userPageResponse struct {
	Items    []*domain.User `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
	Sort     string         `json:"sort"`
	Order    string         `json:"order"`
}

// UserHandler is the admin user management surface.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// atoi parses an optional integer query value. Garbage reads as zero and is
// clamped by the service.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// List handles GET /api/admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        q         query     string  false  "Email or name contains"
// @Param        role      query     string  false  "Exact role"
// @Param        sort      query     string  false  "createdAt or email"
// @Param        order     query     string  false  "asc or desc"
// @Param        page      query     int     false  "Page, 1-based"
// @Param        pageSize  query     int     false  "Page size, 5 to 50"
// @Success      200       {object}  userPageResponse
// @Failure      403       {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), ports.ListUsersInput{
		Query:    c.QueryParam("q"),
		Role:     c.QueryParam("role"),
		Sort:     c.QueryParam("sort"),
		Order:    c.QueryParam("order"),
		Page:     atoi(c.QueryParam("page")),
		PageSize: atoi(c.QueryParam("pageSize")),
	})
	if err != nil {
		return err
	}
	items := page.Items
	if items == nil {
		items = []*domain.User{}
	}
	return c.JSON(http.StatusOK, userPageResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
		Sort:     page.Sort,
		Order:    page.Order,
	})
}

// Create handles POST /api/admin/users.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update handles PATCH /api/admin/users/:id.
//
// @Summary      Change a user's password or role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Changes"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	user, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /api/admin/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
