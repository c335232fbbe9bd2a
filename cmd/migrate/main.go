package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/camp-signup/internal/config"
	"github.com/iliyamo/camp-signup/internal/database"
	"github.com/iliyamo/camp-signup/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [-db <uri>] up|down|version")
	flag.PrintDefaults()
}

func main() {
	cfg := config.Load()
	if err := logger.Configure(cfg); err != nil {
		log.Fatal().Err(err).Msg("configure logger")
	}

	uri := flag.String("db", cfg.DBURI, "database URI (defaults to DB_URI)")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	db, dialect, err := database.Open(context.Background(), *uri)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	m, err := database.NewMigrator(db, dialect)
	if err != nil {
		log.Fatal().Err(err).Msg("build migrator")
	}
	defer m.Close()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		v, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return
		}
		if verr != nil {
			log.Fatal().Err(verr).Msg("read schema version")
		}
		fmt.Printf("version %d (dirty=%t)\n", v, dirty)
		return
	default:
		usage()
		os.Exit(2)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Info().Str("dialect", string(dialect)).Msg("schema already current")
		return
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("migration failed")
	}
	log.Info().Str("dialect", string(dialect)).Str("command", flag.Arg(0)).Msg("migration done")
}
