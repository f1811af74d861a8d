package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/result"
	"github.com/madrasahbd/natija/core/user"
	logsvc "github.com/madrasahbd/natija/services/logger"
	"github.com/madrasahbd/natija/storage/database"
	sqlxrepos "github.com/madrasahbd/natija/storage/database/sqlx"
)

func main() {
	stdLogger := log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	defer logger.Close()

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	result.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		conf:      conf,
		db:        db.DB,
		resultSvc: result.NewService(sqlxrepos.NewResultRepository(db), logger, conf),
		validate:  validate,
		out:       os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
