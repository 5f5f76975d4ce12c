package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/talunzi/gradechain/apps/api/echo"
	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/core/user"
	ethledger "github.com/talunzi/gradechain/ledger/ethereum"
	inmemledger "github.com/talunzi/gradechain/ledger/inmem"
	emailsvc "github.com/talunzi/gradechain/services/email"
	logsvc "github.com/talunzi/gradechain/services/logger"
	"github.com/talunzi/gradechain/wallet"
)

// gatewayLedger is the full contract surface the application wires against.
type gatewayLedger interface {
	session.Ledger
	grade.Ledger
	user.Ledger
}

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up wallet & ledger gateway
	w := wallet.NewKeystoreWallet(conf.Wallet)

	led, closeLedger, err := setUpLedger(conf, w, logger)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up ledger gateway: %v", err), err)
	}
	defer closeLedger()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	mgr := session.NewManager(session.NewResolver(led), logger)
	gradeSvc := grade.NewService(led, led, mailSvc)
	usrSvc := user.NewService(led)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// follow wallet account changes for the life of the process
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go mgr.Watch(watchCtx, w.Changes())

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logger,
			Manager:    mgr,
			Wallet:     w,
			GradeSvc:   gradeSvc,
			UserSvc:    usrSvc,
			Validate:   validate,
			Translator: translator,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

// setUpLedger dials the contract gateway. In debug mode with no RPC endpoint
// configured it falls back to the in-memory stand-in seeded with the wallet's
// first account as admin, so the dashboard runs without a chain.
func setUpLedger(conf *core.Config, w wallet.Wallet, logger core.Logger) (gatewayLedger, func(), error) {
	if conf.Debug && conf.Chain.RPCURL == "" {
		admin := conf.Wallet.Account
		if admin == "" {
			if accounts := w.Accounts(); len(accounts) > 0 {
				admin = accounts[0]
			}
		}
		logger.Info(fmt.Sprintf("no RPC endpoint; using in-memory ledger with admin %q", admin))
		return inmemledger.New(admin), func() {}, nil
	}

	led, err := ethledger.Dial(context.Background(), conf.Chain, w, logger)
	if err != nil {
		return nil, nil, err
	}
	return led, led.Close, nil
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
