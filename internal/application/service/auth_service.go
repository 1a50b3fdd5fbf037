package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pos-terminal/internal/domain/repository"
	"github.com/sangkips/pos-terminal/internal/infrastructure/terminal"
	"github.com/sangkips/pos-terminal/pkg/apperror"
	"github.com/sangkips/pos-terminal/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// AuthService opens and closes terminal sessions
type AuthService struct {
	authRepo   repository.AuthRepository
	registry   *terminal.Registry
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(
	authRepo repository.AuthRepository,
	registry *terminal.Registry,
	jwtManager *utils.JWTManager,
) *AuthService {
	return &AuthService{
		authRepo:   authRepo,
		registry:   registry,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// SessionInfo describes a live terminal session
type SessionInfo struct {
	TerminalID uuid.UUID `json:"terminal_id"`
	Email      string    `json:"email"`
	BaseURL    string    `json:"base_url"`
}

// LoginOutput represents the login output
type LoginOutput struct {
	Session     SessionInfo
	AccessToken string
	ExpiresAt   time.Time
}

// Login resolves the operator's backend, authenticates there and opens a
// terminal session bound to the returned access token.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperror.NewBadRequestError("Email and password are required")
	}

	remote, err := s.authRepo.Login(ctx, email, input.Password)
	if err != nil {
		return nil, err
	}

	term := s.registry.Open(remote)

	accessToken, err := s.jwtManager.GenerateAccessToken(term.ID, term.Email)
	if err != nil {
		s.registry.Close(term.ID)
		return nil, err
	}

	log.WithFields(log.Fields{"terminal_id": term.ID.String(), "email": term.Email}).Info("terminal session opened")

	return &LoginOutput{
		Session:     sessionInfo(term),
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(s.jwtManager.Expiry()),
	}, nil
}

// Logout ends the remote session and drops all terminal state. Logging out
// an unknown terminal is not an error.
func (s *AuthService) Logout(ctx context.Context, terminalID uuid.UUID) error {
	term, ok := s.registry.Close(terminalID)
	if !ok {
		return nil
	}
	s.authRepo.Logout(ctx, term.Backend())

	log.WithFields(log.Fields{"terminal_id": terminalID.String(), "email": term.Email}).Info("terminal session closed")
	return nil
}

// Session returns the live session for terminalID
func (s *AuthService) Session(terminalID uuid.UUID) (*SessionInfo, error) {
	term, ok := s.registry.Get(terminalID)
	if !ok {
		return nil, apperror.ErrSessionExpired
	}
	info := sessionInfo(term)
	return &info, nil
}

func sessionInfo(term *terminal.Terminal) SessionInfo {
	return SessionInfo{
		TerminalID: term.ID,
		Email:      term.Email,
		BaseURL:    term.Backend().BaseURL,
	}
}
