package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/ledger"
)

// roleMiddleware gates a route on the active session's ledger role. The live
// snapshot decides, not the token; a role revoked on the ledger takes effect on
// the next session refresh, token or no token.
func roleMiddleware(mgr *session.Manager, roles ...session.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			snap := mgr.Snapshot()
			if snap.State != session.StateReady || snap.Session == nil {
				return errUnauthorized
			}
			for _, role := range roles {
				if snap.Session.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func adminMiddleware(mgr *session.Manager) echo.MiddlewareFunc {
	return roleMiddleware(mgr, session.RoleAdmin)
}

// callerContextMiddleware marks the request context with the active account so
// gateway implementations without a signer can attribute writes.
func callerContextMiddleware(mgr *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if snap := mgr.Snapshot(); snap.Account != "" {
				req := ctx.Request()
				ctx.SetRequest(req.WithContext(ledger.WithCaller(req.Context(), snap.Account)))
			}
			return next(ctx)
		}
	}
}
