package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/repository"
	"github.com/fcode/course-platform-backend/utils"
)

const minPasswordLength = 6

type RegisterInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type ProfileInput struct {
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type AuthService struct {
	store  repository.Store
	tokens *utils.JWTManager
}

func NewAuthService(store repository.Store, tokens *utils.JWTManager) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

func checkFullName(name string) error {
	switch {
	case name == "":
		return validationf("Full name is required")
	case utf8.RuneCountInString(name) > models.MaxFullNameLength:
		return validationf("Full name must be at most %d characters", models.MaxFullNameLength)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a student account unless role asks for teacher.
// Admin accounts cannot be self-registered.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	if err := checkFullName(in.FullName); err != nil {
		return nil, err
	}
	switch {
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return nil, validationf("A valid email is required")
	case utf8.RuneCountInString(in.Email) > models.MaxEmailLength:
		return nil, validationf("Email must be at most %d characters", models.MaxEmailLength)
	case len(in.Password) < minPasswordLength:
		return nil, validationf("Password must be at least %d characters", minPasswordLength)
	}

	role := models.RoleStudent
	if in.Role != "" {
		parsed, ok := models.ParseRole(in.Role)
		if !ok || parsed == models.RoleAdmin {
			return nil, ErrAdminSelfRegister
		}
		role = parsed
	}

	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if err := checkFullName(name); err != nil {
			return nil, err
		}
		user.FullName = name
	}
	if in.Bio != nil {
		user.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*in.AvatarURL)
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
