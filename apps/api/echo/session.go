package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/navigation"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/wallet"
)

type sessionApi struct {
	conf     *core.Config
	mgr      *session.Manager
	wallet   wallet.Wallet
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := sessionApi{
		conf:     deps.Conf,
		mgr:      deps.Manager,
		wallet:   deps.Wallet,
		validate: deps.Validate,
	}

	sg := g.Group("/session")

	// un-authed endpoints; connecting is the login
	sg.POST("/connect", api.connect)
	sg.GET("", api.current)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.POST("/switch", api.switchAccount)
	ag.POST("/refresh", api.refresh)
	ag.POST("/disconnect", api.disconnect)
	ag.GET("/accounts", api.accounts)

	// navigation is derived from the same snapshot the session endpoints serve
	ng := g.Group("/navigation")
	ng.GET("", api.navigation)
	ng.GET("/route", api.route)
}

// Handlers

func (api *sessionApi) connect(ctx echo.Context) error {
	account, err := api.wallet.Connect(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "connecting wallet")
	}
	return api.publishSession(ctx, account)
}

func (api *sessionApi) current(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, SessionResponse{Snapshot: api.mgr.Snapshot()})
}

func (api *sessionApi) switchAccount(ctx echo.Context) error {
	var data SwitchRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SwitchRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.wallet.SwitchAccount(ctx.Request().Context(), data.Account); err != nil {
		return errors.Wrap(err, "switching account")
	}
	return api.publishSession(ctx, data.Account)
}

func (api *sessionApi) refresh(ctx echo.Context) error {
	snap, err := api.mgr.Refresh(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "refreshing session")
	}
	return api.respondReady(ctx, snap)
}

func (api *sessionApi) disconnect(ctx echo.Context) error {
	api.wallet.Disconnect()
	if _, err := api.mgr.SetAccount(ctx.Request().Context(), ""); err != nil {
		return errors.Wrap(err, "disconnecting session")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *sessionApi) accounts(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"accounts": api.wallet.Accounts()})
}

func (api *sessionApi) navigation(ctx echo.Context) error {
	snap := api.mgr.Snapshot()
	return ctx.JSON(http.StatusOK, NavigationResponse{
		Landing: navigation.Landing(snap),
		Allowed: navigation.Allowed(snap),
	})
}

// route resolves a navigation attempt; an unknown or disallowed screen
// redirects to the landing screen rather than erroring.
func (api *sessionApi) route(ctx echo.Context) error {
	snap := api.mgr.Snapshot()
	requested, ok := navigation.ParseScreen(ctx.QueryParam("screen"))
	if !ok {
		return ctx.JSON(http.StatusOK, RouteResponse{Screen: navigation.Landing(snap)})
	}
	return ctx.JSON(http.StatusOK, RouteResponse{Screen: navigation.Route(snap, requested)})
}

// publishSession makes account the active session and mints a token bound to it.
func (api *sessionApi) publishSession(ctx echo.Context, account string) error {
	snap, err := api.mgr.SetAccount(ctx.Request().Context(), account)
	if err != nil {
		return errors.Wrap(err, "deriving session")
	}
	return api.respondReady(ctx, snap)
}

func (api *sessionApi) respondReady(ctx echo.Context, snap session.Snapshot) error {
	resp := SessionResponse{Snapshot: snap}
	if snap.State == session.StateReady && snap.Session != nil {
		token, err := GenerateToken(api.conf, sessionClaims(api.conf, *snap.Session))
		if err != nil {
			return err
		}
		resp.Token = token
	}
	return ctx.JSON(http.StatusOK, resp)
}
