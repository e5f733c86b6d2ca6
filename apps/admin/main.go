package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tatame-app/tatame/apps/di"
	"github.com/tatame-app/tatame/core"
	logsvc "github.com/tatame-app/tatame/services/logger"
	"github.com/tatame-app/tatame/storage/database"
)

func main() {
	conf := core.NewConfig()

	logger, err := logsvc.NewLogger(conf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setting up logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()
	if err := database.StatusCheck(context.Background(), db); err != nil {
		logger.Fatal("pinging database", err)
	}

	validate, _ := di.NewValidation()
	svcs := di.NewServices(di.NewSQLRepositories(db), validate, conf)

	// start CLI
	cli := commandLine{
		db:      db.DB,
		dialect: db.DriverName(),
		usrSvc:  svcs.User,
		authSvc: svcs.Auth,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("%s failed", os.Args[1]), err)
		}
		db.Close()
		os.Exit(1)
	}
}
