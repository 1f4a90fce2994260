// Package main is the entry point of the kiosk sensor API.
// It loads the configuration, opens the Arduino serial link, starts the
// serial worker and the HTTP API and runs until interrupted.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"VitalsKiosk/internal/core"
	"VitalsKiosk/internal/util"
)

func main() {
	cfgPath := flag.String("c", "configs/config.yml", "path to configuration file")
	testing := flag.Bool("testing", false, "poll always answers the dummy value")
	flag.Parse()

	cfg, err := core.LoadConfig(*cfgPath)
	if err != nil {
		util.SetupLogger(cfg.Global.LogLevel)
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *testing {
		cfg.Sensors.Testing = true
	}
	log := util.SetupLogger(cfg.Global.LogLevel).With("component", "main")
	log.Info("using config", "path", *cfgPath)

	sys := core.NewSystem(cfg)
	if err := sys.StartAll(); err != nil {
		log.Error("failed to start system", "err", err)
		os.Exit(1)
	}

	// wait for Ctrl+C or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down system")
	sys.StopAll()
	log.Info("system stopped cleanly")
}
