package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zetruc/pulse/internal/core/domain"
	"github.com/zetruc/pulse/internal/core/ports"
)

const (
	minPasswordLen  = 6
	defaultPageSize = 10
	minPageSize     = 5
	maxPageSize     = 50
)

// UserService is the admin user management use case.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// List returns one page of users. Unknown sort keys fall back to createdAt,
// anything but "asc" sorts descending and page sizes are clamped to [5,50].
func (s *UserService) List(ctx context.Context, in ports.ListUsersInput) (*ports.UserPage, error) {
	sort := in.Sort
	if sort != "email" {
		sort = "createdAt"
	}
	order := "desc"
	if in.Order == "asc" {
		order = "asc"
	}
	page := max(in.Page, 1)
	pageSize := in.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	pageSize = min(max(pageSize, minPageSize), maxPageSize)

	role := ""
	if domain.ValidRole(in.Role) {
		role = in.Role
	}

	items, total, err := s.repo.List(ctx, ports.UserFilter{
		Query:    strings.TrimSpace(in.Query),
		Role:     role,
		Sort:     sort,
		Desc:     order == "desc",
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.User{}
	}

	return &ports.UserPage{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Sort:     sort,
		Order:    order,
	}, nil
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.InvalidInput("email and password are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, domain.InvalidInput("password must be at least 6 characters")
	}

	role := in.Role
	if !domain.ValidRole(role) {
		role = domain.RoleUser
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", role).Msg("user created")
	return user, nil
}

// Update applies a password and/or role change. Unknown roles are ignored;
// a patch with nothing valid left is rejected.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	var hash, role string
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, domain.InvalidInput("password must be at least 6 characters")
		}
		h, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}
	if in.Role != nil && domain.ValidRole(*in.Role) {
		role = *in.Role
	}
	if hash == "" && role == "" {
		return nil, domain.InvalidInput("no valid update")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hash != "" {
		user.PasswordHash = hash
	}
	if role != "" {
		user.Role = role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if actor.UserID == id {
		return domain.ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("by", actor.UserID).Msg("user deleted")
	return nil
}
