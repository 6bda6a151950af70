package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TanasubRat/travel-match-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 7

// UserService handles registration, login, and token validation
type UserService struct {
	users     UserStore
	jwtSecret string
	betaCode  string
}

// NewUserService creates a new user service. betaCode, when non-empty, gates
// registration behind an invite code.
func NewUserService(users UserStore, jwtSecret, betaCode string) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		betaCode:  betaCode,
	}
}

// Register creates a user with a bcrypt-hashed password and returns the user
// together with a signed token.
func (s *UserService) Register(ctx context.Context, email, password, displayName, betaCode string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required: %w", models.ErrValidation)
	}

	if s.betaCode != "" && betaCode != s.betaCode {
		return nil, "", fmt.Errorf("invalid beta code: %w", models.ErrValidation)
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", fmt.Errorf("email already in use: %w", models.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(displayName),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// The same error covers unknown email and wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
		}
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Me returns the authenticated user's profile
func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateMe updates display name and/or the attached group id. clearGroup
// detaches the user from their current group.
func (s *UserService) UpdateMe(ctx context.Context, userID string, displayName *string, groupID *string, clearGroup bool) (*models.User, error) {
	if displayName != nil {
		trimmed := strings.TrimSpace(*displayName)
		displayName = &trimmed
	}
	if err := s.users.UpdateProfile(ctx, userID, displayName, groupID, clearGroup); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// GenerateJWT generates a signed token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims: %w", models.ErrUnauthorized)
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token: %w", models.ErrUnauthorized)
	}

	return userID, nil
}
