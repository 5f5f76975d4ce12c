package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/core/user"
	"github.com/talunzi/gradechain/wallet"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Manager    *session.Manager
		Wallet     wallet.Wallet
		GradeSvc   *grade.Service
		UserSvc    *user.Service
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.IsTestMode() {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.IsTestMode()) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := bearerAuthMiddleware(conf, s.deps.Manager)
	caller := callerContextMiddleware(s.deps.Manager)

	registerSessionAPI(v1, jwt, s.deps)
	registerUserAPI(v1, jwt, caller, s.deps)
	registerGradeAPI(v1, jwt, caller, s.deps)
}

func (s *Server) Start() {
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errs }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

// signalShutdown sends the process an interrupt when an unrecoverable error
// surfaces in a handler.
func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGINT
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Gradechain API!")
}
