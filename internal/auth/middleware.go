package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

const (
	identityKey  = "auth_identity"
	bearerPrefix = "Bearer "
)

// AuthMiddleware validates bearer tokens without touching storage.
type AuthMiddleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewTokenNotProvided()
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		m.logger.Debug("access token rejected", zap.String("path", c.Path()), zap.Error(err))
		return apperrors.NewInvalidToken()
	}

	c.Locals(identityKey, &domain.Identity{VetID: claims.VetID, Email: claims.Email})
	return c.Next()
}

// IdentityFromContext retrieves the authenticated vet.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}
