package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"docvault/models"
	"docvault/repositories"
	"docvault/utils"

	"gorm.io/gorm"
)

type RegisterInput struct {
	Username     string
	Password     string
	DisplayName  string
	DepartmentID *uint
}

type AuthUser struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Role         string `json:"role"`
	DepartmentID *uint  `json:"department_id,omitempty"`
}

type LoginInput struct {
	Username string
	Password string
}

type LoginOutput struct {
	Token string   `json:"token"`
	User  AuthUser `json:"user"`
}

type ProfileOutput struct {
	AuthUser
	CreatedAt time.Time `json:"created_at"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (AuthUser, error)
	Login(ctx context.Context, in LoginInput) (LoginOutput, error)
	GetProfile(ctx context.Context, userID uint) (ProfileOutput, error)
}

type authService struct {
	users       repositories.UserRepository
	departments repositories.DepartmentRepository
}

func NewAuthService(users repositories.UserRepository, departments repositories.DepartmentRepository) AuthService {
	return &authService{users: users, departments: departments}
}

func toAuthUser(user models.User) AuthUser {
	return AuthUser{
		ID:           user.ID,
		Username:     user.Username,
		DisplayName:  user.DisplayName,
		Role:         user.Role,
		DepartmentID: user.DepartmentID,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (AuthUser, error) {
	if len(in.Username) < 3 {
		return AuthUser{}, newInvalid("username must be at least 3 characters")
	}
	if len(in.Password) < 8 {
		return AuthUser{}, newInvalid("password must be at least 8 characters")
	}

	count, err := s.users.CountByUsername(ctx, in.Username)
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to check username", err)
	}
	if count > 0 {
		return AuthUser{}, newConflict("username already exists")
	}

	if in.DepartmentID != nil {
		department, err := s.departments.GetByID(ctx, nil, *in.DepartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return AuthUser{}, newNotFound("department not found")
			}
			return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to load department", err)
		}
		if !department.Active() {
			return AuthUser{}, newConflict("department is deactivated")
		}
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to hash password", err)
	}

	user := models.User{
		Username:     in.Username,
		Password:     hashedPassword,
		DisplayName:  in.DisplayName,
		Role:         models.RoleMember,
		DepartmentID: in.DepartmentID,
	}
	if err := s.users.Create(ctx, nil, &user); err != nil {
		return AuthUser{}, newAppError(http.StatusInternalServerError, "failed to create user", err)
	}

	return toAuthUser(user), nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	user, err := s.users.GetByUsername(ctx, nil, in.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginOutput{}, newAppError(http.StatusUnauthorized, "invalid username or password", nil)
		}
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	if !utils.CheckPassword(in.Password, user.Password) {
		return LoginOutput{}, newAppError(http.StatusUnauthorized, "invalid username or password", nil)
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		return LoginOutput{}, newAppError(http.StatusInternalServerError, "failed to generate token", err)
	}

	return LoginOutput{Token: token, User: toAuthUser(user)}, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uint) (ProfileOutput, error) {
	user, err := s.users.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileOutput{}, newNotFound("user not found")
		}
		return ProfileOutput{}, newAppError(http.StatusInternalServerError, "failed to query user", err)
	}

	return ProfileOutput{AuthUser: toAuthUser(user), CreatedAt: user.CreatedAt}, nil
}
