package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dancehub-storefront/internal/domain"
	"dancehub-storefront/internal/plan"
	custrepo "dancehub-storefront/internal/repository/customer"
	tokenrepo "dancehub-storefront/internal/repository/token"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrRateLimited indicates too many login attempts in a short window.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Service handles customer signup/login flows.
type Service struct {
	repo         custrepo.Repository
	tokens       *tokenManager
	loginLimiter *rate.Limiter
	accessTTL    time.Duration
	refreshTTL   time.Duration
	passwordMin  int
}

// New creates a Service with sane defaults.
func New(repo custrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:         repo,
		tokens:       newTokenManager(tokens),
		loginLimiter: rate.NewLimiter(rate.Every(time.Second), 20),
		accessTTL:    48 * time.Hour,
		refreshTTL:   30 * 24 * time.Hour,
		passwordMin:  8,
	}
}

// SignupInput captures fields expected by the signup endpoint.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Signup registers a new customer on the free plan.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.Customer, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, errors.New("email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	free := "free"
	return s.repo.Create(ctx, domain.Customer{
		Email:            email,
		PasswordHash:     string(hashed),
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		SubscriptionPlan: &free,
	})
}

// Login validates credentials and returns issued tokens plus the customer.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Customer, string, string, error) {
	if !s.loginLimiter.Allow() {
		return nil, "", "", ErrRateLimited
	}

	password = strings.TrimSpace(password)
	c, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, c.ID, "access", s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, c.ID, "refresh", s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return c, access, refresh, nil
}

// LookupByToken returns the customer bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Customer, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	c, err := s.repo.GetByID(ctx, meta.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return c, nil
}

// UpdatePlan sets the customer's billing plan identifier. The identifier
// must be a known alias; entitlement levels are resolved from it on read.
func (s *Service) UpdatePlan(ctx context.Context, customerID, planID string) error {
	planID = strings.ToLower(strings.TrimSpace(planID))
	if !plan.KnownAlias(planID) {
		return fmt.Errorf("unknown plan %q", planID)
	}
	return s.repo.SetSubscriptionPlan(ctx, customerID, planID)
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string, min int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < min {
		return fmt.Errorf("password must be at least %d characters", min)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
