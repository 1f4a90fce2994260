// Arduino simulator: answers sensor commands on a serial device with plausible readings.
// Use this for local testing of the sensor API when you don't have the kiosk hardware.
package main

import (
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VitalsKiosk/internal/device"
	"VitalsKiosk/internal/parser"
	"VitalsKiosk/internal/util"
)

func main() {
	dev := flag.String("dev", "/tmp/ttyKIOSK0", "serial device the simulator answers on")
	baud := flag.Int("baud", 9600, "baud rate")
	virtual := flag.Bool("virtual", false, "create a socat pty pair and answer on its first end")
	peer := flag.String("peer", "/tmp/ttyKIOSK1", "second end of the socat pair, for the sensor API")
	level := flag.String("log", "info", "log level")
	flag.Parse()

	log := util.SetupLogger(*level).With("component", "sim")
	if err := run(log, *dev, *peer, *baud, *virtual); err != nil {
		log.Error("simulator failed", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, dev, peer string, baud int, virtual bool) error {
	if virtual {
		socat := util.NewSocatManager()
		defer socat.Cleanup()
		if err := socat.CreatePair(dev, peer, 3*time.Second); err != nil {
			return err
		}
		log.Info("point serial.device of the sensor API at the peer", "peer", peer)
	}

	stop := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		<-sig
		close(stop)
	}()

	rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(os.Getpid())))
	board := device.NewArduinoDevice("sim", dev, baud)
	return board.Simulate(stop, func(command string) string {
		return parser.SimulatedReply(command, rnd)
	})
}
