package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusreg/internal/api"
	"campusreg/internal/menu"
	"campusreg/internal/registry"
	"campusreg/internal/storage"
	"campusreg/pkg/environment"
	"campusreg/pkg/errors"
	"campusreg/pkg/logger"
)

func main() {
	f := parseFlags()

	cfg, err := loadConfig(f.config)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "load config"))
	}
	if f.env != "" {
		cfg.Environment = environment.FromString(f.env)
	}

	log, err := logger.New(cfg.Environment)
	if err != nil {
		stdlog.Panic(errors.WrapFail(err, "init logger"))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := registry.New(log)

	if f.serve {
		runServer(ctx, cfg, log, reg)
		return
	}

	m := menu.New(log, reg, os.Stdin, os.Stdout, cfg.Data.File)
	err = m.Run(ctx)
	if err != nil {
		log.Panic(errors.WrapFail(err, "run menu"))
	}
}

func runServer(ctx context.Context, cfg *Config, log logger.Logger, reg *registry.Registry) {
	store, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Panic(errors.WrapFail(err, "init storage backend"))
	}

	srv := api.NewServer(cfg.API, log, reg, store)

	stopped := make(chan struct{})
	context.AfterFunc(ctx, func() {
		stdlog.Println("Graceful shutdown...")

		sdCtx, sdCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer sdCancel()

		err := srv.Shutdown(sdCtx)
		if err != nil {
			log.Error(err)
		}
		close(stopped)
	})

	stdlog.Printf("Serving HTTP API on %s", cfg.API.HTTP.Addr)

	err = srv.Serve(ctx)
	if ctx.Err() == nil {
		log.Panic(errors.WrapFail(err, "serve http api"))
	}

	<-stopped
	stdlog.Println("Shutdown complete")
}

func newStore(ctx context.Context, cfg *Config, log logger.Logger) (registry.Store, error) {
	switch cfg.Storage.Backend {
	case storage.BackendMongo:
		return storage.NewMongo(ctx, cfg.Storage.Mongo, log)
	case storage.BackendFile:
		return storage.NewFile(cfg.Data.File, log), nil
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
