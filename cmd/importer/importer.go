package main

import (
	"context"
	"os"

	"github.com/CTU-SematX/LegoCity/internal/pkg/application/dataflow"
	"github.com/CTU-SematX/LegoCity/internal/pkg/infrastructure/storage"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const appName string = "legocity-importer"

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	inputDir := env.GetVariableOrDefault(ctx, "INPUT_DIR", "./data")

	store, err := storage.Connect(ctx, storage.LoadConfiguration(ctx))
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	results, err := dataflow.ImportCSV(ctx, store, inputDir)
	if err != nil {
		log.Error("import failed", "err", err.Error())
		os.Exit(1)
	}

	total, skipped := 0, 0
	for _, result := range results {
		total += result.Entities
		skipped += result.Skipped
	}

	log.Info("import complete", "files", len(results), "entities", total, "skipped", skipped)
}
