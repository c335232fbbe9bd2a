package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/camp-signup/internal/config"
	"github.com/iliyamo/camp-signup/internal/database"
	"github.com/iliyamo/camp-signup/internal/logger"
	"github.com/iliyamo/camp-signup/internal/model"
	"github.com/iliyamo/camp-signup/internal/repository"
)

var activities = []model.Activity{
	{Name: "Archery", Difficulty: 2},
	{Name: "Canoeing", Difficulty: 3},
	{Name: "Hiking", Difficulty: 1},
	{Name: "Rock Climbing", Difficulty: 5},
	{Name: "Swimming", Difficulty: 2},
	{Name: "Arts and Crafts", Difficulty: 1},
}

var campers = []model.Camper{
	{Name: "Caitlin", Age: 8},
	{Name: "Lizzie", Age: 9},
	{Name: "Nicholas", Age: 12},
	{Name: "Ava", Age: 14},
	{Name: "Levi", Age: 17},
	{Name: "Zoe", Age: 11},
}

// signups are (camper index, activity index, hour).
var signups = [][3]int{
	{0, 0, 9}, {0, 2, 13},
	{1, 4, 10}, {1, 5, 15},
	{2, 3, 8}, {2, 1, 11}, {2, 0, 16},
	{3, 1, 9},
	{4, 3, 14}, {4, 2, 7},
	{5, 5, 10},
}

func main() {
	cfg := config.Load()
	if err := logger.Configure(cfg); err != nil {
		log.Fatal().Err(err).Msg("configure logger")
	}
	uri := flag.String("db", cfg.DBURI, "database URI (defaults to DB_URI)")
	migrateFirst := flag.Bool("migrate", true, "apply migrations before seeding")
	flag.Parse()

	ctx := context.Background()
	db, dialect, err := database.Open(ctx, *uri)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	if *migrateFirst {
		if err := database.MigrateUp(db, dialect); err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}
	}

	log.Info().Msg("clearing tables")
	if err := repository.Reset(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("clear tables")
	}

	activityRepo := repository.NewActivityRepo(db)
	for i := range activities {
		if err := activityRepo.Create(ctx, &activities[i]); err != nil {
			log.Fatal().Err(err).Str("activity", activities[i].Name).Msg("seed activity")
		}
	}

	camperRepo := repository.NewCamperRepo(db)
	for i := range campers {
		if err := camperRepo.Create(ctx, &campers[i]); err != nil {
			log.Fatal().Err(err).Str("camper", campers[i].Name).Msg("seed camper")
		}
	}

	signupRepo := repository.NewSignupRepo(db)
	for _, s := range signups {
		c, a := campers[s[0]], activities[s[1]]
		if _, err := signupRepo.Create(ctx, c.ID, a.ID, s[2]); err != nil {
			log.Fatal().Err(err).Str("camper", c.Name).Str("activity", a.Name).Msg("seed signup")
		}
	}

	log.Info().
		Int("activities", len(activities)).
		Int("campers", len(campers)).
		Int("signups", len(signups)).
		Msg("seeding complete")
}
