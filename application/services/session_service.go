package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"echoclient/application/ports"
	"echoclient/domain/session"
	"echoclient/pkg/utils"
)

// SessionService owns the login, registration, logout and profile-edit
// use cases. It is the only writer of the session store and the only
// caller of the credential store's Save and Clear.
type SessionService struct {
	api         ports.EchoAPI
	credentials ports.CredentialStore
	store       *session.Store
	logger      *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	api ports.EchoAPI,
	credentials ports.CredentialStore,
	store *session.Store,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		api:         api,
		credentials: credentials,
		store:       store,
		logger:      logger,
	}
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// registerForm mirrors the registration screen. The confirm-password
// equality check runs client-side, before any network call.
type registerForm struct {
	FullName        string `validate:"required"`
	Username        string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Login authenticates against the API, persists the returned credential
// and establishes the session. A storage failure while saving the token
// is logged but does not fail the login; the in-memory session is still
// established and the user simply logs in again after a restart.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if err := utils.ValidateStruct(loginForm{Email: email, Password: password}); err != nil {
		return err
	}

	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		// Session stays Anonymous on a failed login.
		return err
	}

	if err := s.credentials.Save(result.Token); err != nil {
		s.logger.Warn("credential not persisted, session will not survive restart",
			zap.Error(err))
	}

	s.store.Establish(result.User)
	s.logger.Info("session established",
		zap.Int64("userID", result.User.ID),
		zap.String("username", result.User.Username),
	)
	return nil
}

// Register creates an account. Success carries no session side effect;
// the caller logs in afterwards.
func (s *SessionService) Register(ctx context.Context, in ports.RegisterInput, confirmPassword string) error {
	form := registerForm{
		FullName:        in.FullName,
		Username:        in.Username,
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: confirmPassword,
	}
	if err := utils.ValidateStruct(form); err != nil {
		return err
	}
	return s.api.Register(ctx, in)
}

// Logout destroys the stored credential and clears the session. Failure
// to remove the credential from disk is logged but never leaves the
// in-memory session authenticated.
func (s *SessionService) Logout() {
	if err := s.credentials.Clear(); err != nil {
		s.logger.Warn("failed to remove stored credential", zap.Error(err))
	}
	s.store.Clear()
	s.logger.Info("session cleared")
}

// UpdateProfile edits the current user's name and bio and merges the
// result into the session, re-deriving the avatar initial.
func (s *SessionService) UpdateProfile(ctx context.Context, name, bio string) error {
	updated, err := s.api.UpdateProfile(ctx, name, bio)
	if err != nil {
		return err
	}
	s.store.UpdateProfile(updated.Name, updated.Bio)
	return nil
}

// HasStoredCredential reports whether a credential is persisted on
// device. The token itself stays opaque to callers.
func (s *SessionService) HasStoredCredential() bool {
	_, ok := s.credentials.Load()
	return ok
}

// CredentialExpiry reads the expiry claim of the stored token without
// verifying the signature. The token remains opaque for authentication
// purposes; this exists only so the CLI can tell the user their session
// has lapsed. Returns false when no token is stored or it carries no
// usable expiry.
func (s *SessionService) CredentialExpiry() (time.Time, bool) {
	token, ok := s.credentials.Load()
	if !ok {
		return time.Time{}, false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
