package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/northstarhq/northstar/modules"
	coreservices "github.com/northstarhq/northstar/modules/core/services"
	"github.com/northstarhq/northstar/pkg/application"
	"github.com/northstarhq/northstar/pkg/configuration"
	"github.com/northstarhq/northstar/pkg/eventbus"
	"github.com/northstarhq/northstar/pkg/httpapi"
	"github.com/northstarhq/northstar/pkg/metrics"
	"github.com/northstarhq/northstar/pkg/middleware"
	"github.com/northstarhq/northstar/pkg/serrors"
	"github.com/northstarhq/northstar/pkg/server"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	if err := app.Migrations().Apply(ctx, pool); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	authService := app.Service(coreservices.AuthService{}).(*coreservices.AuthService)
	app.RegisterMiddleware(
		middleware.WithPool(pool),
		middleware.RequestParams(logger),
		middleware.Authorize(authService),
	)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteTaxonomyError(w, serrors.ErrNotFound)
	})
	srv := server.NewHTTPServer(app, notFound, notFound)
	log.Printf("listening on %s", conf.SocketAddress)
	if err := srv.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
