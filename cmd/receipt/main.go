// Package main prints one health report receipt on the USB thermal printer and exits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"VitalsKiosk/internal/core"
	"VitalsKiosk/internal/util"
)

func main() {
	cfgPath := flag.String("c", "configs/config.yml", "path to configuration file")
	out := flag.String("o", "", "write the ESC/POS job to this file instead of the printer")
	flag.Parse()

	cfg, err := core.LoadConfig(*cfgPath)
	util.SetupLogger(cfg.Global.LogLevel)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	if err := core.RunReceiptJob(cfg, *out); err != nil {
		slog.Error("Error connecting to or printing", "err", err)
		for _, hint := range core.ReceiptHints(cfg.Printer, os.Getenv("USER")) {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
	fmt.Println("Print job sent successfully!")
}
