package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"payroll/internal/model"
	"payroll/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type CreateUserRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD
	Site        string `json:"site"`
	UserType    string `json:"user_type" binding:"required,oneof=Manager Staff Accountant"`
}

type UpdateUserRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=6"`
	PhoneNumber *string `json:"phone_number"`
	DateOfBirth *string `json:"date_of_birth"`
	Site        *string `json:"site"`
	UserType    *string `json:"user_type" binding:"omitempty,oneof=Manager Staff Accountant"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// DTO for returning User without exposing the password hash
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	DateOfBirth *string   `json:"date_of_birth"`
	Site        string    `json:"site"`
	UserType    string    `json:"user_type"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// UserService defines the business logic of users and authentication.
type UserService interface {
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, query string, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error
}

type userService struct {
	repo      repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewUserService returns a new instance of UserService. Tokens are signed
// with jwtSecret and expire after tokenTTL.
func NewUserService(repo repository.UserRepository, jwtSecret []byte, tokenTTL time.Duration) UserService {
	return &userService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func mapToResponse(user *model.User) *UserResponse {
	resp := &UserResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		Site:        user.Site,
		UserType:    user.UserType,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
	}
	if user.DateOfBirth != nil {
		s := user.DateOfBirth.Format("2006-01-02")
		resp.DateOfBirth = &s
	}
	return resp
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, validationErr(fmt.Errorf("%s must be YYYY-MM-DD", field))
	}
	return &t, nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.UserType,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	log.Debugf("User %v logged in", user.ID)
	return &TokenResponse{Token: tokenString, User: *mapToResponse(user)}, nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if !model.ValidUserType(req.UserType) {
		return nil, validationErr(fmt.Errorf("user_type must be %s, %s or %s",
			model.UserTypeManager, model.UserTypeStaff, model.UserTypeAccountant))
	}

	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, validationErr(errors.New("email already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Password:    string(hashedPassword),
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
		Site:        strings.TrimSpace(req.Site),
		UserType:    req.UserType,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validationErr(errors.New("email already exists"))
		}
		return nil, storageErr("failed to create user", err)
	}

	return mapToResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErr(fmt.Errorf("invalid user id: %w", err))
	}
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("user not found", err)
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, query string, page, limit int) ([]UserResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := s.repo.List(ctx, strings.TrimSpace(query), page, limit)
	if err != nil {
		return nil, 0, storageErr("failed to fetch users", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *mapToResponse(&users[i]))
	}

	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, validationErr(fmt.Errorf("invalid user id: %w", err))
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("user not found", err)
	}

	if req.UserType != nil {
		if !model.ValidUserType(*req.UserType) {
			return nil, validationErr(fmt.Errorf("invalid user_type %q", *req.UserType))
		}
		user.UserType = *req.UserType
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return nil, validationErr(errors.New("email already exists"))
			}
			user.Email = email
		}
	}

	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		user.Password = string(hashed)
	}

	if req.DateOfBirth != nil {
		dob, err := parseDate("date_of_birth", *req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		user.DateOfBirth = dob
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Site != nil {
		user.Site = strings.TrimSpace(*req.Site)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validationErr(errors.New("email already exists"))
		}
		return nil, storageErr("failed to update user", err)
	}

	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return validationErr(fmt.Errorf("invalid user id: %w", err))
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return storageErr("failed to delete user", err)
	}
	return nil
}
