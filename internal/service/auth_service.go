package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/payhub/payhub-backend/internal/config"
	"github.com/payhub/payhub-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionRevoked     = errors.New("session revoked")
)

// Claims extends JWT standard claims with app-specific fields. The role's
// permission codes are embedded at login so RBAC checks need no database
// round trip.
type Claims struct {
	jwt.RegisteredClaims
	EmployeeID  int      `json:"employee_id"`
	RoleID      int      `json:"role_id"`
	Permissions []string `json:"permissions,omitempty"`
}

// PermissionLoader resolves the permission codes of a role at login time.
type PermissionLoader interface {
	GetPermissionsByRoleID(ctx context.Context, roleID int) ([]string, error)
}

// AuthService handles authentication, JWT, and session management.
type AuthService struct {
	cfg   *config.Config
	rdb   *redis.Client
	perms PermissionLoader
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, perms PermissionLoader) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, perms: perms}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateToken creates a JWT for an employee and registers the session in
// Redis. A new login replaces any existing session, invalidating the old
// token's JTI.
func (s *AuthService) GenerateToken(ctx context.Context, emp *model.Employee) (string, error) {
	permissions, err := s.perms.GetPermissionsByRoleID(ctx, emp.RoleID)
	if err != nil {
		return "", fmt.Errorf("load permissions: %w", err)
	}

	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(emp.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		EmployeeID:  emp.ID,
		RoleID:      emp.RoleID,
		Permissions: permissions,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.EmployeeSessionKey(emp.ID)
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateSession checks that the token's JTI matches the active session in
// Redis. A token signed before the latest login or a logout fails here.
func (s *AuthService) ValidateSession(ctx context.Context, employeeID int, jti string) error {
	sessionKey := config.CacheKey.EmployeeSessionKey(employeeID)
	stored, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrSessionRevoked
		}
		return fmt.Errorf("check session: %w", err)
	}
	if stored != jti {
		return ErrSessionRevoked
	}
	return nil
}

// Logout removes the employee's session from Redis, revoking outstanding
// tokens.
func (s *AuthService) Logout(ctx context.Context, employeeID int) error {
	return s.rdb.Del(ctx, config.CacheKey.EmployeeSessionKey(employeeID)).Err()
}
