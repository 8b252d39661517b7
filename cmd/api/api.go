package main

import (
	"context"
	"net/http"
	"os"

	"github.com/CTU-SematX/LegoCity/internal/pkg/infrastructure/router"
	"github.com/CTU-SematX/LegoCity/internal/pkg/infrastructure/storage"
	"github.com/CTU-SematX/LegoCity/internal/pkg/presentation/api"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const appName string = "legocity-api"

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	servicePort := env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080")

	store, err := storage.Connect(ctx, storage.LoadConfiguration(ctx))
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	r := router.New(appName, log)

	err = api.RegisterHandlers(ctx, r, store)
	if err != nil {
		log.Error("failed to register handlers", "err", err.Error())
		os.Exit(1)
	}

	log.Info("starting api server", "port", servicePort)

	err = http.ListenAndServe(":"+servicePort, r)
	if err != nil {
		log.Error("server stopped", "err", err.Error())
		os.Exit(1)
	}
}
