package serviceImp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"larsbees/entities"
	"larsbees/pkg/apperr"
	"larsbees/pkg/auth/repository"
	"larsbees/pkg/auth/service"
)

const issuer = "larsbees"

type authSvc struct {
	users       repository.UserRepository
	secret      []byte
	ttl         time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

func New(users repository.UserRepository, secret string, ttl, rememberTTL time.Duration) service.AuthService {
	return &authSvc{users: users, secret: []byte(secret), ttl: ttl, rememberTTL: rememberTTL, now: time.Now}
}

func (s *authSvc) Register(ctx context.Context, in service.RegisterInput) (*entities.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.users.Taken(ctx, in.Username, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, service.ErrDuplicateUser
	}
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entities.User{
		Username:      in.Username,
		Email:         in.Email,
		PasswordHash:  hash,
		Role:          "staff",
		Status:        "active",
		IsActive:      true,
		CalendarToken: uuid.NewString(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *authSvc) Login(ctx context.Context, in service.LoginInput) (*service.Session, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, service.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, service.ErrInvalidCredentials
	}
	if !u.IsActive || u.Status == "inactive" || u.Status == "suspended" {
		return nil, service.ErrInactiveUser
	}
	ttl := s.ttl
	if in.RememberMe {
		ttl = s.rememberTTL
	}
	now := s.now()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(u.UserID), 10),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &service.Session{User: u, Token: signed, ExpiresAt: exp}, nil
}

func (s *authSvc) ParseToken(raw string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: bad subject", apperr.ErrUnauthorized)
	}
	return uint(id), nil
}

func (s *authSvc) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
