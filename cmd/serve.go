package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/desertthunder/vinyl/internal/server"
	"github.com/desertthunder/vinyl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// newAPI assembles the HTTP API over the runner's storage and sync engine.
func (r *Runner) newAPI() *server.API {
	return server.NewAPI(server.APIOpts{
		Albums:   r.albums,
		Journal:  r.journal,
		Importer: r.sync,
		Logger:   r.logger,
		Defaults: tasks.ImportRequest{
			AccountID: r.config.Discogs.UserID,
			Token:     r.config.Discogs.Token,
		},
	})
}

// Serve runs the JSON HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDB(); err != nil {
		return err
	}

	host := r.config.Server.Host
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if cmd.IsSet("port") {
		port = cmd.Int("port")
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := server.NewAPIRouter(r.newAPI(), r.logger)
	return server.ListenAndServe(ctx, addr, router, r.logger)
}
