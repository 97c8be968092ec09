package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/northstarhq/northstar/modules"
	"github.com/northstarhq/northstar/pkg/application"
	"github.com/northstarhq/northstar/pkg/configuration"
	"github.com/northstarhq/northstar/pkg/eventbus"
)

// newApplication builds the application container the same way the server
// does, without starting the HTTP surface.
func newApplication(mods ...application.Module) (application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	if err := modules.Load(app, mods...); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to load modules: %w", err)
	}
	return app, pool, nil
}

func Migrate(mods ...application.Module) error {
	app, pool, err := newApplication(mods...)
	if err != nil {
		return err
	}
	defer pool.Close()
	return app.Migrations().Apply(context.Background(), pool)
}
