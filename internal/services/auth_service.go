package services

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"cantina/internal/common"
	"cantina/internal/models"
	"cantina/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTTL = 12 * time.Hour

// AuthService verifies employee credentials and issues the session token
// the middleware later resolves into a principal. User administration is
// out of scope; accounts are provisioned directly in the store.
type AuthService interface {
	Login(ctx context.Context, employeeID, password string) (string, *models.User, error)
	GetUserInfo(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	now       Clock
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, now Clock) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{userRepo: userRepo, jwtSecret: []byte(jwtSecret), now: now}
}

func (s *authService) Login(ctx context.Context, employeeID, password string) (string, *models.User, error) {
	if employeeID == "" || password == "" {
		return "", nil, common.InvalidParam("employee id and password are required")
	}

	user, err := s.userRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return "", nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return "", nil, common.ErrInvalidPassword
	}
	if !verifyPassword(password, user.PasswordHash) {
		return "", nil, common.ErrInvalidPassword
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

func (s *authService) GetUserInfo(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}

// HashPassword produces the stored credential form. Kept compatible with
// the accounts already provisioned by the platform's seed tooling.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func verifyPassword(password, hash string) bool {
	computed := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}
