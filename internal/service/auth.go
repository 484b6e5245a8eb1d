package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/conduit/conduit-api/internal/models"
	"github.com/conduit/conduit-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "invalid email or password"

// IssueToken signs a token whose subject is the user id
func (s *Service) IssueToken(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(userID, 10),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.config.JWTTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.config.JWTTTL))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken checks signature and expiry and returns the user id subject
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", claims.Subject, err)
	}
	return userID, nil
}

// Authenticate resolves the caller behind an Authorization header value.
//
// A nil identity with a nil error means the request proceeds anonymously.
// When requiresIdentity is set, every path that yields no identity fails
// with Unauthorized instead.
func (s *Service) Authenticate(ctx context.Context, header string, requiresIdentity bool) (*models.AuthUser, error) {
	anonymous := func(reason string) (*models.AuthUser, error) {
		if requiresIdentity {
			return nil, Unauthorized(reason)
		}
		return nil, nil
	}

	// "Token <jwt>"; the scheme word itself is not checked
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return anonymous("missing authorization token")
	}

	userID, err := s.VerifyToken(parts[1])
	if err != nil {
		s.log.Debugf("Token rejected: %v", err)
		return anonymous("invalid token")
	}

	user, err := s.repo.FindUserByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return anonymous("invalid token")
	}
	if err != nil {
		return nil, s.internal("failed to resolve caller", err)
	}
	return user.Identity(), nil
}

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.AuthenticatedUser, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, s.internal("failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if dup := duplicateUser(err); dup != nil {
			return nil, dup
		}
		return nil, s.internal("failed to create user", err)
	}

	s.log.Infof("User registered: %s", user.Email)
	return s.authenticated(user)
}

// Login authenticates a user by email and password and returns a token
func (s *Service) Login(ctx context.Context, email, password string) (*models.AuthenticatedUser, error) {
	user, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(invalidCredentials)
	}
	if err != nil {
		return nil, s.internal("failed to find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, BadRequest(invalidCredentials)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return s.authenticated(user)
}

// CurrentUser returns the caller's account with a freshly issued token
func (s *Service) CurrentUser(ctx context.Context, caller *models.AuthUser) (*models.AuthenticatedUser, error) {
	user, err := s.repo.FindUserByID(ctx, caller.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, s.internal("failed to find user", err)
	}
	return s.authenticated(user)
}

// UpdateUser applies a partial update to the caller's account
func (s *Service) UpdateUser(ctx context.Context, caller *models.AuthUser, upd models.UserUpdate) (*models.AuthenticatedUser, error) {
	if upd.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*upd.Password), s.config.BcryptCost)
		if err != nil {
			return nil, s.internal("failed to hash password", err)
		}
		hashed := string(hashedPassword)
		upd.Password = &hashed
	}

	user, err := s.repo.UpdateUser(ctx, caller.ID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, NotFound("user not found")
		}
		if dup := duplicateUser(err); dup != nil {
			return nil, dup
		}
		return nil, s.internal("failed to update user", err)
	}

	s.log.Infof("User updated: %d", user.ID)
	return s.authenticated(user)
}

func (s *Service) authenticated(user *models.User) (*models.AuthenticatedUser, error) {
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, s.internal("failed to issue token", err)
	}
	return &models.AuthenticatedUser{
		Email:    user.Email,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
		Token:    token,
	}, nil
}

func duplicateUser(err error) *Error {
	switch {
	case errors.Is(err, repository.ErrDuplicateUsername):
		return BadRequest("username already taken")
	case errors.Is(err, repository.ErrDuplicateEmail):
		return BadRequest("email already taken")
	}
	return nil
}
