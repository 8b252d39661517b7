package main

import (
	"context"
	"os"

	"github.com/CTU-SematX/LegoCity/internal/pkg/application/seeder"
	"github.com/CTU-SematX/LegoCity/internal/pkg/infrastructure/storage"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const appName string = "legocity-seeder"

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	geographyPath := env.GetVariableOrDefault(ctx, "SEEDER_GEOGRAPHY", "")

	geo, err := seeder.LoadGeography(geographyPath)
	if err != nil {
		log.Error("failed to load geography", "err", err.Error())
		os.Exit(1)
	}

	store, err := storage.Connect(ctx, storage.LoadConfiguration(ctx))
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	total, err := seeder.New(geo).Seed(ctx, store)
	if err != nil {
		log.Error("failed to seed entities", "err", err.Error())
		os.Exit(1)
	}

	log.Info("seeding complete", "total", total)
}
