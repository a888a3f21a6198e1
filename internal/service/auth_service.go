package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/auth"
	"github.com/spec-kit/vetclinic-service/internal/config"
	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/events"
	"github.com/spec-kit/vetclinic-service/internal/repository"
	"github.com/spec-kit/vetclinic-service/internal/validation"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// AuthService coordinates registration, login and session renewal.
type AuthService struct {
	vets       repository.VetRepository
	sessions   repository.RefreshTokenRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	refreshTTL time.Duration

	now             func() time.Time
	newRefreshToken func() (string, error)
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	VetRepo          repository.VetRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Name     string
	CRMV     string
	Email    string
	Password string
}

// LoginResult is a freshly started session.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	Vet          *domain.Vet
}

// RefreshResult is a renewed access token.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		vets:            deps.VetRepo,
		sessions:        deps.RefreshTokenRepo,
		tokenMgr:        auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		dispatcher:      dispatcher,
		logger:          logger,
		bcryptCost:      cfg.Auth.BcryptCost,
		refreshTTL:      cfg.Auth.RefreshTokenTTL(),
		now:             time.Now,
		newRefreshToken: auth.GenerateRefreshToken,
	}
}

// Register creates a new vet account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Vet, error) {
	var v validation.Collector
	v.Required("name", in.Name, "Name is required")
	v.Required("crmv", in.CRMV, "CRMV is required")
	v.Email("email", in.Email)
	v.Password("password", in.Password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	email := validation.NormalizeEmail(in.Email)
	if _, err := s.vets.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewEmailInUse()
	} else if !errors.Is(err, apperrors.ErrRecordNotFound) {
		return nil, storeErr(err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	vet := &domain.Vet{
		Name:         in.Name,
		CRMV:         in.CRMV,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.vets.Create(ctx, vet); err != nil {
		// lost a race with a concurrent registration
		if de := apperrors.ToDomainError(err); de.Code == apperrors.CodeDuplicateKey && de.Details["field"] == "email" {
			return nil, apperrors.NewEmailInUse()
		}
		return nil, storeErr(err)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventVetRegistered,
		SubjectID: vet.ID,
		VetID:     vet.ID,
		Payload:   events.VetRegisteredPayload{Email: vet.Email, CRMV: vet.CRMV},
	})
	return vet, nil
}

// Login verifies credentials and starts a new session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var v validation.Collector
	v.Email("email", email)
	v.Required("password", password, "Password is required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	vet, err := s.vets.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrRecordNotFound) {
			return nil, apperrors.NewAccountNotFound()
		}
		return nil, storeErr(err)
	}

	match, err := auth.ComparePassword(vet.PasswordHash, password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !match {
		return nil, apperrors.NewInvalidCredentials()
	}

	accessToken, _, err := s.tokenMgr.GenerateAccessToken(vet.ID, vet.Email)
	if err != nil {
		return nil, apperrors.NewTokenIssuanceFailed(err)
	}
	refreshValue, err := s.newRefreshToken()
	if err != nil {
		return nil, apperrors.NewTokenIssuanceFailed(err)
	}

	session := &domain.RefreshToken{
		VetID:     vet.ID,
		Token:     refreshValue,
		ExpiresAt: s.now().Add(s.refreshTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, storeErr(err)
	}

	s.publish(ctx, events.Event{Type: events.EventSessionStarted, SubjectID: session.ID, VetID: vet.ID})
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		ExpiresIn:    s.expiresIn(),
		Vet:          vet,
	}, nil
}

// Refresh mints a new access token from a live refresh token.
// The refresh token itself is neither rotated nor extended.
func (s *AuthService) Refresh(ctx context.Context, refreshValue string) (*RefreshResult, error) {
	if refreshValue == "" {
		return nil, apperrors.NewValidationError("Refresh token is required", nil)
	}

	session, err := s.sessions.GetByToken(ctx, refreshValue)
	if err != nil {
		if errors.Is(err, apperrors.ErrRecordNotFound) {
			return nil, apperrors.NewInvalidRefreshToken()
		}
		return nil, refreshStoreErr(err)
	}

	if session.Expired(s.now()) {
		if err := s.sessions.DeleteByID(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired refresh token", zap.String("session_id", session.ID), zap.Error(err))
		}
		s.publish(ctx, events.Event{
			Type:      events.EventSessionEnded,
			SubjectID: session.ID,
			VetID:     session.VetID,
			Payload:   events.SessionEndedPayload{Reason: "expired", Revoked: 1},
		})
		return nil, apperrors.NewRefreshTokenExpired()
	}

	vet, err := s.vets.GetByID(ctx, session.VetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRecordNotFound) {
			return nil, apperrors.NewAccountNotFound()
		}
		return nil, refreshStoreErr(err)
	}

	accessToken, _, err := s.tokenMgr.GenerateAccessToken(vet.ID, vet.Email)
	if err != nil {
		return nil, apperrors.NewTokenIssuanceFailed(err)
	}
	return &RefreshResult{AccessToken: accessToken, ExpiresIn: s.expiresIn()}, nil
}

// Logout deletes the refresh token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, refreshValue string) error {
	if refreshValue == "" {
		return apperrors.NewValidationError("Refresh token is required", nil)
	}

	deleted, err := s.sessions.DeleteByToken(ctx, refreshValue)
	if err != nil {
		return storeErr(err)
	}
	if deleted > 0 {
		s.publish(ctx, events.Event{
			Type:    events.EventSessionEnded,
			Payload: events.SessionEndedPayload{Reason: "logout", Revoked: deleted},
		})
	}
	return nil
}

// ChangePassword verifies the current password, stores the new hash and revokes every session of the vet.
func (s *AuthService) ChangePassword(ctx context.Context, vetID, currentPassword, newPassword string) error {
	var v validation.Collector
	v.Required("currentPassword", currentPassword, "Current password is required")
	v.Password("newPassword", newPassword)
	if err := v.Err(); err != nil {
		return err
	}

	vet, err := s.vets.GetByID(ctx, vetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrRecordNotFound) {
			return apperrors.NewAccountNotFound()
		}
		return storeErr(err)
	}

	match, err := auth.ComparePassword(vet.PasswordHash, currentPassword)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if !match {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.vets.UpdatePassword(ctx, vet.ID, hash); err != nil {
		return storeErr(err)
	}

	revoked, err := s.sessions.DeleteByVet(ctx, vet.ID)
	if err != nil {
		return storeErr(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventPasswordChanged,
		SubjectID: vet.ID,
		VetID:     vet.ID,
		Payload:   events.SessionEndedPayload{Reason: "password_changed", Revoked: revoked},
	})
	return nil
}

// ListVets returns every vet's id and name.
func (s *AuthService) ListVets(ctx context.Context) ([]domain.Vet, error) {
	vets, err := s.vets.List(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return vets, nil
}

// PruneExpiredSessions deletes every refresh token past its expiry.
func (s *AuthService) PruneExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) expiresIn() int64 {
	return int64(s.tokenMgr.TTL() / time.Second)
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

// storeErr translates a repository error. Only connectivity and timeout
// failures become Unavailable; anything unrecognized stays Internal.
func storeErr(err error) error {
	return apperrors.ToDomainError(err)
}

// refreshStoreErr collapses every server-side failure during refresh to Unavailable.
func refreshStoreErr(err error) error {
	de := apperrors.ToDomainError(err)
	if de.HTTPStatus < 500 {
		return de
	}
	return apperrors.NewUnavailable(err)
}
