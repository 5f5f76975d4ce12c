package echoapi

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/session"
)

const bearerPrefix = "Bearer "

// Claims represents the authorization claims transmitted via a JWT. The token
// is bound to the account it was minted for; it stops working the moment a
// different account becomes the active session.
type Claims struct {
	jwt.RegisteredClaims
	Account string `json:"account"`
	Role    string `json:"role,omitempty"`
}

func sessionClaims(conf *core.Config, sess session.Session) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    conf.AppName,
			Subject:   sess.Account,
			ExpiresAt: jwt.NewNumericDate(now.Add(conf.Server.JWTExpirationDelta)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Account: sess.Account,
		Role:    sess.Role.String(),
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func parseToken(conf *core.Config, raw string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, errUnauthorized
	}
	return claims, nil
}

// bearerAuthMiddleware authenticates requests with a signed session token and
// checks the token still matches the active account. A valid token for a
// since-switched account is as good as no token.
func bearerAuthMiddleware(conf *core.Config, mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return errUnauthorized
			}
			claims, err := parseToken(conf, strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				return err
			}

			snap := mgr.Snapshot()
			if snap.State != session.StateReady || snap.Account != claims.Account {
				return errSessionChanged
			}
			return next(ctx)
		}
	}
}
