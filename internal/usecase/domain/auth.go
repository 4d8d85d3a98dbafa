// Package domain contains application usecases orchestrating domain logic by account.
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaykukadiya/Issue-tracker/internal/entities"

	"golang.org/x/crypto/bcrypt"
)

// Register creates a new account after checking username and email uniqueness.
func (u *Usecase) Register(ctx context.Context, user entities.User, password string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if len(user.Username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters", entities.ErrInvalidArgument)
	}
	if user.Email == "" {
		return nil, fmt.Errorf("%w: email is required", entities.ErrInvalidArgument)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", entities.ErrInvalidArgument)
	}

	if _, err := u.repo.GetUserByUsername(ctx, user.Username); err == nil {
		return nil, fmt.Errorf("%w: username already registered", entities.ErrUserExists)
	} else if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}
	if _, err := u.repo.GetUserByEmail(ctx, user.Email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", entities.ErrUserExists)
	} else if !errors.Is(err, entities.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.repo.CreateUser(ctx, user, string(hash))
	if err != nil {
		return nil, err
	}
	u.log.Infow("user registered", "user_id", created.ID, "username", created.Username)
	return created, nil
}

// Login verifies credentials and returns a bearer token.
func (u *Usecase) Login(ctx context.Context, username, password string) (string, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", entities.ErrInvalidArgument)
	}

	creds, err := u.repo.GetCredentials(ctx, username)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return "", fmt.Errorf("%w: incorrect username or password", entities.ErrUnauthorized)
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: incorrect username or password", entities.ErrUnauthorized)
	}

	return u.tokens.Generate(creds.User.Username)
}

// IssueToken mints a fresh token for an already-authenticated user.
func (u *Usecase) IssueToken(user entities.User) (string, error) {
	return u.tokens.Generate(user.Username)
}

// UserFromToken resolves a bearer token to its active user.
func (u *Usecase) UserFromToken(ctx context.Context, token string) (*entities.User, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	username, err := u.tokens.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrUnauthorized, err)
	}

	user, err := u.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown user", entities.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: inactive user", entities.ErrUnauthorized)
	}
	return user, nil
}
