package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/hostel5/portal-be/db"
)

// IdentityService wraps the firebase auth client. It is the only place the
// portal talks to the identity store: the middleware verifies sessions
// through it and the roster manager provisions accounts through it.
type IdentityService struct {
	client *auth.Client
}

func NewIdentityService(ctx context.Context, app *firebase.App) (*IdentityService, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing auth client: %w", err)
	}
	return &IdentityService{client: client}, nil
}

func (s *IdentityService) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return s.client.VerifyIDToken(ctx, idToken)
}

// CreateUser provisions a credentialed account and returns its id. A taken
// email maps to the conflict sentinel so callers can surface it as such.
func (s *IdentityService) CreateUser(ctx context.Context, email, password, fullName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(fullName)
	record, err := s.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", fmt.Errorf("%w: account %v already exists", db.ErrConflict, email)
		}
		return "", err
	}
	return record.UID, nil
}
