package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service interface {
	Login(ctx context.Context, in LoginInput) (*TokenResponse, error)
	CreateStaff(ctx context.Context, username, fullName, password string) (*StaffUser, error)
	Authenticate(ctx context.Context, token string) (*StaffUser, error)
}

type service struct {
	repo         Repository
	accessSecret []byte
	accessTTL    time.Duration
	now          func() time.Time
}

func NewService(r Repository, secret string, ttl time.Duration) Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &service{repo: r, accessSecret: []byte(secret), accessTTL: ttl, now: time.Now}
}

func (s *service) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}

	expiresAt := s.now().Add(s.accessTTL)
	token, err := s.generateAccessToken(user, expiresAt)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, ExpiresAt: expiresAt, Staff: *user}, nil
}

func (s *service) CreateStaff(ctx context.Context, username, fullName, password string) (*StaffUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &StaffUser{
		Username:     username,
		FullName:     fullName,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create staff user: %w", err)
	}
	return user, nil
}

// Authenticate validates an access token and returns the active staff user it names.
func (s *service) Authenticate(ctx context.Context, tokenStr string) (*StaffUser, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.accessSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	staffIDFloat, ok := claims["staff_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, uint(staffIDFloat))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrInactive
	}
	return user, nil
}

func (s *service) generateAccessToken(user *StaffUser, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"staff_id": user.ID,
		"username": user.Username,
		"exp":      expiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
}
