package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"recipehub/internal/microservices/http-api/models"
	"recipehub/internal/microservices/http-api/repository"
	"recipehub/internal/middleware/auth"
	"recipehub/internal/shared"
)

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// UserView is a user as seen by one viewer.
type UserView struct {
	User         *models.User
	IsSubscribed bool
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Get(ctx context.Context, viewer shared.Viewer, id string) (*UserView, error)
	Me(ctx context.Context, viewer shared.Viewer) (*UserView, error)
	List(ctx context.Context, viewer shared.Viewer, page PageRequest) ([]UserView, int64, error)
	SetPassword(ctx context.Context, viewer shared.Viewer, current, next string) error
}

type userService struct {
	users     repository.UserRepository
	projector *Projector
	log       *slog.Logger
	pageSize  int
}

func NewUserService(users repository.UserRepository, projector *Projector, log *slog.Logger, pageSize int) UserService {
	return &userService{users: users, projector: projector, log: log, pageSize: pageSize}
}

// Register creates a regular user with a bcrypt password hash.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, shared.Conflict("email already in use")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, shared.Conflict("username already in use")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if errors.Is(err, auth.ErrWeakPassword) {
		return nil, shared.Validation("password", "password must be at least 8 characters")
	}
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     email,
		Username:  username,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  hash,
		Role:      "user",
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, shared.Conflict("email or username already in use").WithCause(err)
		}
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *userService) Get(ctx context.Context, viewer shared.Viewer, id string) (*UserView, error) {
	userID, ok := canonicalUserID(id)
	if !ok {
		return nil, shared.NotFoundf("user %s not found", id)
	}
	user, err := s.users.FindAnnotated(ctx, userID, viewer.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, shared.NotFoundf("user %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return s.view(ctx, user, viewer)
}

func (s *userService) Me(ctx context.Context, viewer shared.Viewer) (*UserView, error) {
	if err := requireViewer(viewer); err != nil {
		return nil, err
	}
	return s.Get(ctx, viewer, viewer.UserID)
}

func (s *userService) List(ctx context.Context, viewer shared.Viewer, page PageRequest) ([]UserView, int64, error) {
	page = page.Normalize(s.pageSize)
	users, total, err := s.users.List(ctx, viewer.UserID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		v, err := s.view(ctx, &users[i], viewer)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

func (s *userService) SetPassword(ctx context.Context, viewer shared.Viewer, current, next string) error {
	if err := requireViewer(viewer); err != nil {
		return err
	}
	user, err := s.users.FindByID(ctx, viewer.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return shared.Unauthorized("user no longer exists")
	}
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(user.Password, current); err != nil {
		return shared.Validation("current_password", "invalid password")
	}
	hash, err := auth.HashPassword(next)
	if errors.Is(err, auth.ErrWeakPassword) {
		return shared.Validation("new_password", "password must be at least 8 characters")
	}
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	s.log.Info("password changed", "user_id", user.ID)
	return nil
}

func (s *userService) view(ctx context.Context, user *models.User, viewer shared.Viewer) (*UserView, error) {
	subscribed, err := s.projector.ProjectUser(ctx, user, viewer, &user.IsSubscribed)
	if err != nil {
		return nil, err
	}
	return &UserView{User: user, IsSubscribed: subscribed}, nil
}
