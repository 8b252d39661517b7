package main

import (
	"context"
	"os"

	"github.com/CTU-SematX/LegoCity/internal/pkg/application/loader"
	"github.com/CTU-SematX/LegoCity/pkg/ngsild/client"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const appName string = "legocity-loader"

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	brokerURL := env.GetVariableOrDefault(ctx, "CONTEXT_BROKER_URL", "http://localhost:1026")
	csvDir := env.GetVariableOrDefault(ctx, "CSV_DATA_DIR", "./data")
	debug := env.GetVariableOrDefault(ctx, "CONTEXT_BROKER_CLIENT_DEBUG", "false")

	broker := client.NewContextBrokerClient(brokerURL, client.Debug(debug))
	l := loader.New(broker)

	err := l.WaitForBroker(ctx)
	if err != nil {
		log.Error("context broker never became ready", "err", err.Error())
		os.Exit(1)
	}

	summary, err := l.LoadDirectory(ctx, csvDir)
	if err != nil {
		log.Error("failed to load directory", "dir", csvDir, "err", err.Error())
		os.Exit(1)
	}

	if summary.Succeeded() == 0 && len(summary.Failed) > 0 {
		log.Error("no entities could be loaded", "failed", len(summary.Failed))
		os.Exit(1)
	}

	log.Info("load complete",
		"created", summary.Created, "updated", summary.Updated, "failed", len(summary.Failed),
	)
}
