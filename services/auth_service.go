package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rrlogistics/logger"
	"rrlogistics/models"
	"rrlogistics/repository"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 6

type LoginResult struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        *models.AppUser `json:"user"`
}

type AuthService struct {
	users repository.UserRepository
	jwt   *JWTService
}

func NewAuthService(users repository.UserRepository, jwt *JWTService) *AuthService {
	return &AuthService{users: users, jwt: jwt}
}

// Register validates the user, hashes the password and stores the account.
func (s *AuthService) Register(ctx context.Context, user models.AppUser) (*models.AppUser, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FullName = strings.TrimSpace(user.FullName)
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return nil, models.ValidationError{Field: "email", Msg: "is not a valid address"}
	}
	if user.FullName == "" {
		return nil, models.ValidationError{Field: "full_name", Msg: "is required"}
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if !user.Role.Valid() {
		return nil, models.ValidationError{Field: "role", Msg: fmt.Sprintf("unknown role %q", user.Role)}
	}
	if len(user.Password) < minPasswordLength {
		return nil, models.ValidationError{Field: "password", Msg: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hash)
	user.ID = ""
	user.IsActive = true

	if err := s.users.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.ValidationError{Field: "email", Msg: "is already registered"}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.Password = ""
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &LoginResult{AccessToken: token, TokenType: "bearer", User: user}, nil
}

func (s *AuthService) Me(ctx context.Context, id string) (*models.AppUser, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound("user", err)
	}
	user.Password = ""
	return user, nil
}

// ListUsers pages through the directory without password hashes.
func (s *AuthService) ListUsers(ctx context.Context, skip, limit int64) ([]*models.AppUser, error) {
	users, err := s.users.ListUsers(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

// UpdateMe changes profile fields of the caller's own account. Role, status,
// email and pricing rule are not reachable from here.
func (s *AuthService) UpdateMe(ctx context.Context, id string, upd models.ProfileUpdate) (*models.AppUser, error) {
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return nil, models.ValidationError{Field: "full_name", Msg: "must not be blank"}
		}
		upd.FullName = &name
	}
	if upd.Pincode != nil && *upd.Pincode != "" && !pincodePattern.MatchString(*upd.Pincode) {
		return nil, models.ValidationError{Field: "pincode", Msg: "must be 6 digits"}
	}
	if err := s.users.UpdateProfile(ctx, id, upd); err != nil {
		return nil, notFound("user", err)
	}
	return s.Me(ctx, id)
}

func (s *AuthService) Authenticate(token string) (models.Principal, error) {
	return s.jwt.ValidateToken(token)
}

// SeedAdmin creates the master admin account on first start. An existing account is left alone.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("look up admin: %w", err)
	}
	admin, err := s.Register(ctx, models.AppUser{
		Email:    email,
		FullName: "Master Admin",
		Role:     models.RoleMasterAdmin,
		Password: password,
	})
	if err != nil {
		return err
	}
	logger.Log.Info("seeded master admin", zap.String("email", admin.Email))
	return nil
}
