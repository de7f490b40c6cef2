package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/Additional-Code/tableside/internal/clock"
	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/internal/entity"
	"github.com/Additional-Code/tableside/internal/presentation/http/response"
	"github.com/Additional-Code/tableside/pkg/errorbank"
)

const claimsKey = "auth.claims"

// Module provides the token issuer to Fx.
var Module = fx.Provide(NewIssuer)

// Claims carries the authenticated staff member. The user id travels as the subject.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the authenticated user's id.
func (c *Claims) UserID() string { return c.Subject }

// Issuer signs and verifies staff tokens.
type Issuer struct {
	secret []byte
	cfg    config.Auth
	clock  clock.Clock
}

// NewIssuer builds an Issuer from configuration.
func NewIssuer(cfg config.Config, clk clock.Clock) *Issuer {
	if clk == nil {
		clk = clock.System{}
	}
	return &Issuer{secret: []byte(cfg.Auth.JWTSecret), cfg: cfg.Auth, clock: clk}
}

// Issue signs a token for userID with the given role.
func (i *Issuer) Issue(userID, role string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id is required")
	}
	switch role {
	case entity.RoleOwner, entity.RoleManager, entity.RoleStaff:
	default:
		return "", fmt.Errorf("unknown role %q", role)
	}

	now := i.clock.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse verifies a signed token and returns its claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Middleware rejects requests without a valid bearer token and stores the claims
// on the request context.
func (i *Issuer) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return response.New(c).WithError(errorbank.Unauthorized("authorization header required (Bearer <token>)")).Build()
			}
			claims, err := i.Parse(strings.TrimSpace(raw))
			if err != nil {
				return response.New(c).WithError(errorbank.Unauthorized("invalid or expired token", errorbank.WithCause(err))).Build()
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// FromContext returns the claims stored by Middleware.
func FromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(claimsKey).(*Claims)
	return claims, ok
}

// ActorID returns the authenticated user's id, or an empty string.
func ActorID(c echo.Context) string {
	if claims, ok := FromContext(c); ok {
		return claims.UserID()
	}
	return ""
}
