package services

import (
	"context"
	"errors"
	"strings"

	"carehq/internal/common"
	"carehq/internal/models"
	"carehq/internal/repositories"
	"carehq/pkg/pagination"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type CreateUserRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	JobTitle  *string `json:"job_title"`
	RoleID    *uuid.UUID `json:"role_id"`
}

type UserService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	Update(ctx context.Context, tenantID uuid.UUID, user *models.User) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	AssignRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) error
}

type userService struct {
	userRepo     repositories.UserRepository
	userRoleRepo repositories.UserRoleRepository
}

func NewUserService(userRepo repositories.UserRepository, userRoleRepo repositories.UserRoleRepository) UserService {
	return &userService{
		userRepo:     userRepo,
		userRoleRepo: userRoleRepo,
	}
}

func (s *userService) Create(ctx context.Context, tenantID uuid.UUID, req *CreateUserRequest) (*models.User, error) {
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, common.NewValidationError("email", "must be a valid email address")
	}
	if len(req.Password) < 8 {
		return nil, common.NewValidationError("password", "must be at least 8 characters")
	}
	if req.FirstName == "" || req.LastName == "" {
		return nil, common.NewValidationError("first_name", "first and last name are required")
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewValidationError("email", "is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		JobTitle:     req.JobTitle,
		Status:       models.StatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if req.RoleID != nil {
		if err := s.AssignRole(ctx, tenantID, user.ID, *req.RoleID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, notFoundOrErr("user", err)
	}
	return user, nil
}

// Authenticate verifies credentials at login. Every failure mode returns the
// same authentication error so nothing about account existence leaks.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, &common.AuthenticationError{Reason: "invalid credentials"}
	}
	if user.Status != models.StatusActive {
		return nil, &common.AuthenticationError{Reason: "invalid credentials"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &common.AuthenticationError{Reason: "invalid credentials"}
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, tenantID uuid.UUID, user *models.User) error {
	current, err := s.userRepo.GetByID(ctx, tenantID, user.ID)
	if err != nil {
		return notFoundOrErr("user", err)
	}
	if err := validateTransition(current.Status, user.Status); err != nil {
		return err
	}

	user.TenantID = tenantID
	return s.userRepo.Update(ctx, user)
}

func (s *userService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	p := pagination.Clamp(limit, offset)
	return s.userRepo.List(ctx, tenantID, p.Limit, p.Offset)
}

func (s *userService) AssignRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) error {
	return s.userRoleRepo.Assign(ctx, &models.UserRole{
		ID:       uuid.New(),
		TenantID: tenantID,
		UserID:   userID,
		RoleID:   roleID,
	})
}
