package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/core/user"
)

type userApi struct {
	svc      *user.Service
	mgr      *session.Manager
	validate *validator.Validate
}

func registerUserAPI(g *echo.Group, jwt, caller echo.MiddlewareFunc, deps ServerDeps) {
	api := userApi{
		svc:      deps.UserSvc,
		mgr:      deps.Manager,
		validate: deps.Validate,
	}

	ug := g.Group("/users", jwt, caller)

	// the active session registers itself; every other write is admin-only
	ug.POST("/register", api.register)
	ug.GET("", api.query, adminMiddleware(api.mgr))
	ug.POST("/roles", api.assignRole, adminMiddleware(api.mgr))
	ug.GET("/:account", api.retrieve)
	ug.DELETE("/:account", api.destroy, adminMiddleware(api.mgr))
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.Registration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Registration")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	snap := api.mgr.Snapshot()
	if err := api.svc.Register(ctx.Request().Context(), snap.Account, data); err != nil {
		return err
	}

	// the registration write changed what the session resolves to
	refreshed, err := api.mgr.Refresh(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "refreshing session after registration")
	}
	return ctx.JSON(http.StatusCreated, SessionResponse{Snapshot: refreshed})
}

func (api *userApi) query(ctx echo.Context) error {
	users, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

// retrieve serves an account's ledger view to an admin, or to the account itself.
func (api *userApi) retrieve(ctx echo.Context) error {
	account := core.CleanString(ctx.Param("account"), true /* lower */)

	snap := api.mgr.Snapshot()
	if snap.Session == nil {
		return errUnauthorized
	}
	if snap.Session.Role != session.RoleAdmin && snap.Account != account {
		return errHttpForbidden
	}

	usr, err := api.svc.Get(ctx.Request().Context(), account)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) assignRole(ctx echo.Context) error {
	var data user.AssignRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignRole")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	err := api.svc.AssignRole(ctx.Request().Context(), data.Account, session.ParseRoleName(data.Role))
	if err != nil {
		return err
	}
	api.refreshIfActive(ctx, data.Account)

	usr, err := api.svc.Get(ctx.Request().Context(), data.Account)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	account := core.CleanString(ctx.Param("account"), true /* lower */)

	// Say No to Suicide! the active admin cannot remove themselves
	if api.mgr.Snapshot().Account == account {
		return errHttpForbidden
	}

	if err := api.svc.RemoveUser(ctx.Request().Context(), account); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// refreshIfActive re-derives the session when a write touched the active
// account, so the next snapshot reflects the new ledger state.
func (api *userApi) refreshIfActive(ctx echo.Context, account string) {
	if api.mgr.Snapshot().Account == account {
		_, _ = api.mgr.Refresh(ctx.Request().Context())
	}
}
