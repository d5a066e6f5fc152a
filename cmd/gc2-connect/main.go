// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gc2-connect bridges a GC2 launch monitor to an Open Connect compatible
// simulator, printing every event on the wire as it happens. It is a thin
// composition of the gc2connect package; the protocol, shot-validation,
// routing, and physics logic all live there.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"

	"github.com/google/gc2connect"
	"github.com/google/gc2connect/router"
	"github.com/google/gc2connect/settings"
)

func formatPtr(f *float64) string {
	if f == nil {
		return "?"
	}
	return fmt.Sprintf("%.1f", *f)
}

func printEvent(e gc2connect.Event) {
	switch e.Kind {
	case gc2connect.FrameReceived:
		fmt.Printf("frame: ball=%smph vla=%s hla=%s\n", formatPtr(e.Frame.BallSpeedMPH), formatPtr(e.Frame.VLADeg), formatPtr(e.Frame.HLADeg))
	case gc2connect.StatusChanged:
		fmt.Printf("status: ready=%v ball_detected=%v\n", e.Status.Ready(), e.Status.BallDetected())
	case gc2connect.ShotValidated:
		fmt.Printf("shot %d: ball=%.1fmph spin=%.0frpm incomplete=%v\n", e.Shot.ShotID, e.Shot.BallSpeedMPH, e.Shot.TotalSpinRPM, e.Shot.Incomplete)
	case gc2connect.ShotSimulated:
		fmt.Printf("simulated shot %d: carry=%.1fyd total=%.1fyd offline=%.1fyd apex=%.0fft\n",
			e.Shot.ShotID, e.Sim.Summary.CarryYards, e.Sim.Summary.TotalYards, e.Sim.Summary.OfflineYards, e.Sim.Summary.ApexFeet)
	case gc2connect.TransportStateChanged:
		fmt.Printf("%s transport: %s\n", e.Transport, e.TransportState)
	case gc2connect.ReconnectStatusEvent:
		fmt.Printf("%s reconnect: %s (attempt %d)\n", e.Transport, e.Reconnect.Kind, e.Reconnect.Attempt)
	case gc2connect.Diagnostic:
		fmt.Printf("diagnostic: %s\n", e.Message)
	}
}

func mainImpl() error {
	settingsPath := flag.String("settings", "gc2connect-settings.json", "path to the settings file")
	mode := flag.String("mode", "remote", "initial dispatch mode: remote or local")
	remoteHost := flag.String("host", "", "simulator host to connect to on startup (overrides settings)")
	remotePort := flag.Int("port", 0, "simulator port to connect to on startup (overrides settings)")
	device := flag.Bool("device", true, "connect to the USB device on startup")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	res, err := settings.Load(*settingsPath)
	if err != nil {
		return err
	}
	if res.Recovered {
		log.Printf("gc2-connect: settings file was unreadable, falling back to defaults")
	}
	if res.Migrated {
		log.Printf("gc2-connect: settings migrated to schema v%d", settings.CurrentVersion)
	}
	s := res.Settings
	if *remoteHost != "" {
		s.Remote.Host = *remoteHost
	}
	if *remotePort != 0 {
		s.Remote.Port = *remotePort
	}

	var startMode router.Mode
	switch *mode {
	case "remote":
		startMode = router.Remote
	case "local":
		startMode = router.Local
	default:
		return fmt.Errorf("-mode must be remote or local, got %q", *mode)
	}

	core := gc2connect.New(s)
	core.SetMode(startMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *device {
		if err := core.ConnectDevice(ctx); err != nil {
			return fmt.Errorf("connect device: %w", err)
		}
		defer core.DisconnectDevice()
	}
	if s.Remote.Host != "" {
		if err := core.ConnectRemote(ctx, s.Remote.Host, s.Remote.Port); err != nil {
			return fmt.Errorf("connect remote: %w", err)
		}
		defer core.DisconnectRemote()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-core.Events():
			if !ok {
				return nil
			}
			printEvent(e)
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "gc2-connect: %s.\n", err)
		os.Exit(1)
	}
}
