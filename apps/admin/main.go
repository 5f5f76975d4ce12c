package main

import (
	"context"
	"log"
	"os"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/user"
	ethledger "github.com/talunzi/gradechain/ledger/ethereum"
	logsvc "github.com/talunzi/gradechain/services/logger"
	"github.com/talunzi/gradechain/wallet"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	svcLogger := logsvc.NewRollbarLogger(logger, conf)
	svcLogger.Enable(!conf.Debug)

	ctx := context.Background()

	// the CLI signs with the keystore's admin account
	w := wallet.NewKeystoreWallet(conf.Wallet)
	account, err := w.Connect(ctx)
	errAndDie(err)

	led, err := ethledger.Dial(ctx, conf.Chain, w, svcLogger)
	errAndDie(err)
	defer led.Close()

	// start CLI
	cli := commandLine{
		usrSvc:  user.NewService(led),
		account: account,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
