// Package guest issues and resolves anonymous session tokens. The guest id
// behind a token keys the persisted guest cart.
package guest

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"dancehub-storefront/internal/domain"
	tokenrepo "dancehub-storefront/internal/repository/token"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	tokens tokenrepo.Repository
	ttl    time.Duration
}

func New(tokens tokenrepo.Repository) *Service {
	return &Service{
		tokens: tokens,
		ttl:    30 * 24 * time.Hour,
	}
}

// Issue creates a new guest id and a bearer token bound to it.
func (s *Service) Issue(ctx context.Context) (token, guestID string, err error) {
	guestID = uuid.NewString()
	for i := 0; i < 5; i++ {
		token, err = randomToken()
		if err != nil {
			return "", "", err
		}
		id := guestID
		err = s.tokens.Create(ctx, tokenrepo.Token{
			Token:     token,
			GuestID:   &id,
			Kind:      "guest",
			ExpiresAt: time.Now().Add(s.ttl),
		})
		if err == nil {
			return token, guestID, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", "", err
	}
	return "", "", errors.New("token collision")
}

// LookupByToken resolves a guest token to its guest id.
func (s *Service) LookupByToken(ctx context.Context, token string) (string, error) {
	meta, err := s.tokens.Get(ctx, token)
	if err != nil {
		return "", ErrInvalidToken
	}
	if meta.Kind != "guest" || meta.GuestID == nil {
		return "", ErrInvalidToken
	}
	if time.Now().After(meta.ExpiresAt) {
		_ = s.tokens.Delete(ctx, token)
		return "", ErrInvalidToken
	}
	return *meta.GuestID, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
