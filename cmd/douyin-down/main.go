package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/lovezhqj/douyin-down/pkg/douyin"
	"github.com/lovezhqj/douyin-down/pkg/handler"
	"github.com/lovezhqj/douyin-down/pkg/proxy"
	"github.com/lovezhqj/douyin-down/pkg/server"
)

type Opts struct {
	ConfigPath string `long:"config" short:"c" default:"config.toml" env:"DOUYIN_DOWN_CONFIG_PATH"`
	Debug      bool   `long:"debug" env:"DOUYIN_DOWN_DEBUG"`
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	// Optional .env next to the binary feeds the env-tagged options below.
	_ = godotenv.Load()

	opts := Opts{}
	if _, err := flags.Parse(&opts); err != nil {
		log.WithError(err).Fatal("failed to parse command line arguments")
	}

	log.Debugf("loading configuration %q", opts.ConfigPath)
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration file")
	}

	if opts.Debug || cfg.Log.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if cfg.Log.Filename != "" {
		f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.WithError(err).Fatal("failed to open log file")
		}
		defer f.Close()
		log.SetOutput(f)
	}

	log.WithFields(log.Fields{
		"version": version,
		"commit":  commit,
		"date":    date,
	}).Info("running douyin-down")

	pipeline := douyin.NewPipeline(cfg.Resolver)
	relay := proxy.New()

	srv := server.New(cfg.Server, handler.New(pipeline, relay))

	group.Go(func() error {
		log.Infof("running listener at %s", srv.Addr)
		return srv.Start()
	})

	group.Go(func() error {
		// Shutdown web server
		defer func() {
			log.Info("shutting down web server")
			if err := srv.Shutdown(ctx); err != nil {
				log.WithError(err).Error("server shutdown failed")
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-stop:
				cancel()
				return nil
			}
		}
	})

	if err := group.Wait(); err != nil && (err != context.Canceled && err != http.ErrServerClosed) {
		log.WithError(err).Error("wait error")
	}

	log.Info("gracefully stopped")
}
