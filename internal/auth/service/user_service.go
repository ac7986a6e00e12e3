package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/domain"
	"github.com/AnthoniusHendriyanto/academy-service/internal/auth/dto"
	autherror "github.com/AnthoniusHendriyanto/academy-service/internal/errors"
)

type UserService struct {
	repo   domain.UserRepository
	hasher PasswordHasher
	now    func() time.Time
}

func NewUserService(repo domain.UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
}

// Register creates an active PROFESSIONAL account.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.UserOutput, error) {
	return s.create(ctx, &domain.User{
		Name:           strings.TrimSpace(input.Name),
		Email:          normalizeEmail(input.Email),
		Role:           domain.RoleProfessional,
		DocumentNumber: input.DocumentNumber,
		PhoneNumber:    input.PhoneNumber,
		Active:         true,
	}, input.Password)
}

func (s *UserService) Create(ctx context.Context, input dto.CreateUserInput) (*dto.UserOutput, error) {
	role := domain.Role(input.Role)
	if !role.Valid() {
		return nil, autherror.Validation("invalid role")
	}

	return s.create(ctx, &domain.User{
		Name:           strings.TrimSpace(input.Name),
		Email:          normalizeEmail(input.Email),
		Role:           role,
		DocumentNumber: input.DocumentNumber,
		PhoneNumber:    input.PhoneNumber,
		Active:         true,
	}, input.Password)
}

func (s *UserService) create(ctx context.Context, user *domain.User, password string) (*dto.UserOutput, error) {
	existing, err := s.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, autherror.New(autherror.ErrConflict, "email already in use")
	}

	user.PasswordHash, err = s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	out := dto.NewUserOutput(user)
	return &out, nil
}

// Me returns the caller. A token that outlived its user yields NotFound.
func (s *UserService) Me(ctx context.Context, userID int64) (*dto.UserOutput, error) {
	return s.Get(ctx, userID)
}

func (s *UserService) Get(ctx context.Context, id int64) (*dto.UserOutput, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewUserOutput(user)
	return &out, nil
}

func (s *UserService) List(ctx context.Context) ([]dto.UserOutput, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserOutput, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserOutput(&users[i]))
	}
	return out, nil
}

func (s *UserService) Update(ctx context.Context, id int64, input dto.UpdateUserInput) (*dto.UserOutput, error) {
	user, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email != user.Email {
			existing, err := s.repo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, autherror.New(autherror.ErrConflict, "email already in use")
			}
		}
		user.Email = email
	}
	if input.Role != nil {
		role := domain.Role(*input.Role)
		if !role.Valid() {
			return nil, autherror.Validation("invalid role")
		}
		user.Role = role
	}
	if input.DocumentNumber != nil {
		user.DocumentNumber = *input.DocumentNumber
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	// An empty hash leaves the stored password untouched.
	user.PasswordHash = ""
	if input.Password != nil {
		if user.PasswordHash, err = s.hasher.Hash(*input.Password); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	out := dto.NewUserOutput(user)
	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id, s.now())
}

func (s *UserService) find(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, autherror.NotFound("user")
	}
	return user, nil
}
