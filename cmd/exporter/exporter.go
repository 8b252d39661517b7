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

const appName string = "legocity-exporter"

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	mode := env.GetVariableOrDefault(ctx, "EXPORT_MODE", "csv")
	inputDir := env.GetVariableOrDefault(ctx, "INPUT_DIR", "./data")
	outputDir := env.GetVariableOrDefault(ctx, "OUTPUT_DIR", "./data")

	var results []dataflow.FileResult
	var err error

	switch mode {
	case "csv", "geojson":
		store, connErr := storage.Connect(ctx, storage.LoadConfiguration(ctx))
		if connErr != nil {
			log.Error("failed to connect to database", "err", connErr.Error())
			os.Exit(1)
		}
		defer store.Close()

		if mode == "csv" {
			results, err = dataflow.ExportCSV(ctx, store, outputDir)
		} else {
			results, err = dataflow.ExportGeoJSON(ctx, store, outputDir)
		}
	case "csv-to-geojson":
		results, err = dataflow.CSVToGeoJSON(ctx, inputDir, outputDir)
	case "geojson-to-csv":
		results, err = dataflow.GeoJSONToCSV(ctx, inputDir, outputDir)
	default:
		log.Error("unknown export mode", "mode", mode)
		os.Exit(1)
	}

	if err != nil {
		log.Error("export failed", "mode", mode, "err", err.Error())
		os.Exit(1)
	}

	total := 0
	for _, result := range results {
		total += result.Entities
	}

	log.Info("export complete", "mode", mode, "files", len(results), "entities", total)
}
