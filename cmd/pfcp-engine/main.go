// Command pfcp-engine starts a standalone PFCP node using a YAML config
// file, logging received and timed-out messages. It exists to give the
// engine package a runnable entry point; embedding applications are
// expected to call pfcpengine.New directly and supply their own WorkGroup.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/hieulven/pfcp-engine/internal/pfcpconfig"
	"github.com/hieulven/pfcp-engine/internal/pfcpengine"
)

func main() {
	cfgFile := os.Getenv("PFCP_ENGINE_CONFIG")

	cfg, err := pfcpconfig.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pfcp-engine: %v\n", err)
		os.Exit(1)
	}

	log := setupLogging(cfg)
	log.Info(cfg.Summary())

	eng, err := pfcpengine.New(cfg, &loggingWorkGroup{log: log}, log)
	if err != nil {
		log.WithError(err).Fatal("failed to start engine")
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("received shutdown signal")
		cancel()
	}()

	log.WithField("bind_addr", cfg.BindAddr()).Info("pfcp engine starting")
	if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("engine exited with error")
		os.Exit(1)
	}
}

func setupLogging(cfg *pfcpconfig.Config) *logrus.Entry {
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logrus.WithError(err).Warn("failed to open log file, using console only")
		} else {
			logrus.SetOutput(f)
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
