package main

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
	"github.com/trezcool/campweek/storage/database"
	"github.com/trezcool/campweek/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	errAndDie(db.Ping())

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	camp.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		migrator:   &migrator{db: db, fsys: database.MigrationsFS, dir: database.MigrationsDir},
		campSvc:    camp.NewService(sqlxrepos.NewCampRepository(db, nil)),
		validate:   validate,
		translator: translator,
		out:        os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
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
