package middleware

import (
	"net/http"
	"strings"

	"github.com/AbdiAhmed6457/job-portal/internal/model"
	"github.com/AbdiAhmed6457/job-portal/internal/service"
	"github.com/AbdiAhmed6457/job-portal/pkg/jwtutil"
	"github.com/AbdiAhmed6457/job-portal/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	claimsKey = "user"
	actorKey  = "actor"
)

// TokenValidator validates access tokens. *jwtutil.JWTUtil implements it.
type TokenValidator interface {
	ValidateToken(tokenString string) (*jwtutil.UserClaims, error)
}

// JWTAuthMiddleware rejects requests without a valid bearer token.
func JWTAuthMiddleware(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing authorization header"})
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
			}

			if err := authenticate(c, tokens, tokenString); err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}
			return next(c)
		}
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent and
// lets anonymous requests through. An invalid token is still rejected.
func OptionalAuthMiddleware(tokens TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return next(c)
			}

			tokenString, ok := bearerToken(authHeader)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
			}
			if err := authenticate(c, tokens, tokenString); err != nil {
				logger.FromEcho(c).Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
			}
			return next(c)
		}
	}
}

// RequireRoles only lets authenticated callers with one of roles through.
// It must run after JWTAuthMiddleware.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := ActorFrom(c)
			if actor == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
			}
			for _, role := range roles {
				if actor.Role == role {
					return next(c)
				}
			}
			logger.FromEcho(c).Warn("Role not permitted",
				zap.Uint("user_id", actor.ID),
				zap.String("role", string(actor.Role)),
				zap.String("path", c.Path()))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Access denied"})
		}
	}
}

// ActorFrom returns the authenticated caller or nil for anonymous requests.
func ActorFrom(c echo.Context) *service.Actor {
	actor, _ := c.Get(actorKey).(*service.Actor)
	return actor
}

func authenticate(c echo.Context, tokens TokenValidator, tokenString string) error {
	claims, err := tokens.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return err
	}

	c.Set(claimsKey, claims)
	c.Set(actorKey, &service.Actor{ID: claims.UserID, Role: role})

	log := logger.FromEcho(c).With(zap.Uint("user_id", claims.UserID))
	c.Set(logger.EchoKey, log)
	c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context(), log)))
	log.Debug("JWT token validated successfully", zap.String("role", claims.Role))
	return nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
