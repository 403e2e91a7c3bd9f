package auth

import (
	"context"
	"fmt"

	"github.com/ridewise/ridewise/internal/api/models"
	authsvc "github.com/ridewise/ridewise/internal/auth"
	"github.com/ridewise/ridewise/internal/database"
)

// TokenProvider authenticates API clients with bearer tokens.
type TokenProvider struct {
	tokens  *authsvc.TokenIssuer
	service *authsvc.Service
	db      database.UserDB
}

// NewTokenProvider creates a new bearer token provider.
func NewTokenProvider(tokens *authsvc.TokenIssuer, service *authsvc.Service, db database.UserDB) *TokenProvider {
	return &TokenProvider{
		tokens:  tokens,
		service: service,
		db:      db,
	}
}

// Authenticate verifies a token and loads the user it was issued for.
func (p *TokenProvider) Authenticate(ctx context.Context, token string) (*models.User, error) {
	username, err := p.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := p.db.GetUserByUsername(ctx, username)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, authsvc.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to load token user: %w", err)
	}
	return toModel(user, p.service.IsAdmin(user.Username), MethodToken), nil
}
