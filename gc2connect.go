// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gc2connect is the composition root: it wires the USB read loop,
// the Open Connect TCP client, the shot state machine, the router, and
// the local physics engine into the single Core API surface an external
// collaborator (a UI, a CLI, an export job) drives.
package gc2connect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/google/gc2connect/conn/physic"
	"github.com/google/gc2connect/drivers"
	"github.com/google/gc2connect/flight"
	"github.com/google/gc2connect/flight/aero"
	"github.com/google/gc2connect/openconnect"
	"github.com/google/gc2connect/protocol"
	"github.com/google/gc2connect/reconnect"
	"github.com/google/gc2connect/router"
	"github.com/google/gc2connect/settings"
	"github.com/google/gc2connect/shot"
	"github.com/google/gc2connect/usb"
)

// deviceID identifies this connector to the simulator in every outbound
// message's DeviceID field. It is not user-configurable.
const deviceID = "GC2-CONNECT"

func physicFahrenheit(f float64) physic.Temperature {
	return physic.ZeroFahrenheit + physic.Temperature(f*float64(physic.Fahrenheit))
}

func physicPercentRH(pct float64) physic.RelativeHumidity {
	return physic.RelativeHumidity(pct * float64(physic.PercentRH))
}

// EventKind distinguishes the variants of Event delivered over Core's
// event stream.
type EventKind int

const (
	FrameReceived EventKind = iota
	StatusChanged
	ShotValidated
	ShotSimulated
	TransportStateChanged
	ReconnectStatusEvent
	// Diagnostic surfaces non-fatal conditions (a dropped field, a
	// rejected shot) that an error kind elsewhere in the system produced
	// but that don't warrant their own event variant.
	Diagnostic
)

func (k EventKind) String() string {
	switch k {
	case FrameReceived:
		return "FrameReceived"
	case StatusChanged:
		return "StatusChanged"
	case ShotValidated:
		return "ShotValidated"
	case ShotSimulated:
		return "ShotSimulated"
	case TransportStateChanged:
		return "TransportStateChanged"
	case ReconnectStatusEvent:
		return "ReconnectStatus"
	case Diagnostic:
		return "Diagnostic"
	default:
		return "Unknown"
	}
}

// Event is the single variant type delivered on Core.Events(); only the
// fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	Frame  *protocol.ShotFrame
	Status *protocol.StatusFrame
	Shot   *shot.ValidatedShot
	Sim    *flight.ShotResult

	Transport      string // "usb" or "remote"
	TransportState string

	Reconnect reconnect.Status

	Message string
}

// spinWaitPoll is how often the machine is polled for shots whose
// spin-wait has elapsed.
const spinWaitPoll = 100 * time.Millisecond

// Core owns one device session and one remote session, routes validated
// shots between them, and publishes every state change as an Event.
type Core struct {
	mu        sync.Mutex
	machineMu sync.Mutex // guards machine; Accept/Salvage/Due are not reentrant
	settings  settings.Settings
	machine   *shot.Machine
	router    *router.Router
	engine    *flight.Engine

	events chan Event

	usbCancel context.CancelFunc
	usbDone   chan struct{}

	tcpCancel context.CancelFunc
	tcpClient *openconnect.Client
	tcpDone   chan struct{}
}

// New returns a Core configured from s, starting in LOCAL mode when s.Mode
// is local and in REMOTE mode otherwise, with an empty event buffer of
// reasonable depth for a UI to drain.
func New(s settings.Settings) *Core {
	c := &Core{
		settings: s,
		machine:  shot.NewMachine(nil),
		events:   make(chan Event, 64),
		engine:   flight.NewEngine(),
	}
	startMode := router.Remote
	if s.Mode == settings.ModeLocal {
		startMode = router.Local
	}
	c.router = router.New(startMode, func(m router.Mode) {
		c.emit(Event{Kind: Diagnostic, Message: fmt.Sprintf("mode switched to %s", m)})
	})
	c.router.SetSinks(&remoteSink{core: c}, &localSink{core: c})
	c.applyConditions()
	return c
}

// Events returns the read side of Core's event stream. It is never
// closed; a disconnected Core simply stops producing on it.
func (c *Core) Events() <-chan Event { return c.events }

func (c *Core) emit(e Event) {
	select {
	case c.events <- e:
	default:
		// A full event channel means the collaborator isn't draining;
		// dropping rather than blocking keeps the I/O loops responsive,
		// per the spec's back-pressure note in §5.
	}
}

func (c *Core) applyConditions() {
	cond := c.settings.OpenRange.Conditions
	c.engine.Conditions = aero.Conditions{
		Temperature:      physicFahrenheit(cond.TemperatureF),
		ElevationFt:      cond.ElevationFt,
		RelativeHumidity: physicPercentRH(cond.HumidityPct),
		PressureInHg:     aero.StandardConditions().PressureInHg,
	}
	c.engine.Surface = flight.ParseSurface(c.settings.OpenRange.Surface)
	c.engine.Wind = flight.Wind{SpeedMPH: cond.WindSpeedMPH, HeadingDeg: cond.WindDirDeg}
}

// ConnectDevice opens the USB session (via the drivers registry, for
// uniform startup sequencing with ConnectRemote) and starts the read loop
// under a reconnect supervisor.
func (c *Core) ConnectDevice(ctx context.Context) error {
	c.mu.Lock()
	if c.usbCancel != nil {
		c.mu.Unlock()
		return fmt.Errorf("gc2connect: device already connected")
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.usbCancel = cancel
	c.usbDone = make(chan struct{})
	c.mu.Unlock()

	reg := drivers.NewRegistry()
	reg.MustRegister(&usbTransport{core: c, runCtx: runCtx})
	if _, err := reg.Start(runCtx); err != nil {
		cancel()
		return fmt.Errorf("gc2connect: start usb transport: %w", err)
	}
	return nil
}

// DisconnectDevice stops the USB read loop and releases the session.
func (c *Core) DisconnectDevice() error {
	c.mu.Lock()
	cancel := c.usbCancel
	done := c.usbDone
	c.usbCancel = nil
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	if done != nil {
		<-done
	}
	c.emit(Event{Kind: TransportStateChanged, Transport: "usb", TransportState: "DISCONNECTED"})
	return nil
}

// ConnectRemote dials the simulator and starts its heartbeat loop.
func (c *Core) ConnectRemote(ctx context.Context, host string, port int) error {
	c.mu.Lock()
	if c.tcpCancel != nil {
		c.mu.Unlock()
		return fmt.Errorf("gc2connect: remote already connected")
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.tcpCancel = cancel
	c.tcpDone = make(chan struct{})
	c.mu.Unlock()

	reg := drivers.NewRegistry()
	reg.MustRegister(&tcpTransport{core: c, runCtx: runCtx, host: host, port: port})
	if _, err := reg.Start(runCtx); err != nil {
		cancel()
		return fmt.Errorf("gc2connect: start remote transport: %w", err)
	}
	return nil
}

// DisconnectRemote closes the TCP client and stops its heartbeat loop.
func (c *Core) DisconnectRemote() error {
	c.mu.Lock()
	cancel := c.tcpCancel
	done := c.tcpDone
	client := c.tcpClient
	c.tcpCancel = nil
	c.tcpClient = nil
	c.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	if done != nil {
		<-done
	}
	if client != nil {
		client.Close()
	}
	c.emit(Event{Kind: TransportStateChanged, Transport: "remote", TransportState: "DISCONNECTED"})
	return nil
}

// SetMode switches the router between REMOTE and LOCAL dispatch.
func (c *Core) SetMode(m router.Mode) { c.router.SetMode(m) }

// Mode reports the router's current dispatch mode.
func (c *Core) Mode() router.Mode { return c.router.Mode() }

// remoteSink adapts the TCP client to the router.Sink contract.
type remoteSink struct {
	core *Core
}

func (s *remoteSink) Dispatch(vs *shot.ValidatedShot) error {
	s.core.mu.Lock()
	client := s.core.tcpClient
	s.core.mu.Unlock()
	if client == nil {
		return fmt.Errorf("gc2connect: no remote connection")
	}
	ctx, cancel := context.WithTimeout(context.Background(), openconnect.OpDeadline)
	defer cancel()
	_, err := client.SendShot(ctx, toShotPayload(vs))
	return err
}

// localSink adapts the physics engine to the router.Sink contract.
type localSink struct {
	core *Core
}

func (s *localSink) Dispatch(vs *shot.ValidatedShot) error {
	lc := flight.LaunchConditions{
		BallSpeedMPH: vs.BallSpeedMPH,
		VLADeg:       vs.VLADeg,
		HLADeg:       vs.HLADeg,
		BackSpinRPM:  vs.BackSpinRPM,
		SideSpinRPM:  vs.SideSpinRPM,
	}
	result := s.core.engine.Simulate(lc)
	s.core.emit(Event{Kind: ShotSimulated, Shot: vs, Sim: &result})
	return nil
}

func toShotPayload(vs *shot.ValidatedShot) openconnect.ShotPayload {
	return openconnect.ShotPayload{
		BallSpeedMPH:    vs.BallSpeedMPH,
		SpinAxisDeg:     vs.SpinAxisDeg,
		TotalSpinRPM:    vs.TotalSpinRPM,
		BackSpinRPM:     vs.BackSpinRPM,
		SideSpinRPM:     vs.SideSpinRPM,
		HLADeg:          vs.HLADeg,
		VLADeg:          vs.VLADeg,
		HasClubData:     vs.HasClubData,
		ClubSpeedMPH:    vs.ClubSpeedMPH,
		PathVDeg:        vs.PathVDeg,
		FaceToTargetDeg: vs.FaceToTargetDeg,
		LieDeg:          vs.LieDeg,
		LoftDeg:         vs.LoftDeg,
		PathHDeg:        vs.PathHDeg,
	}
}

// usbTransport adapts the USB session and its reconnect supervisor to the
// drivers.Transport contract so device startup shares one ordering
// mechanism with the remote transport.
type usbTransport struct {
	core   *Core
	runCtx context.Context
}

func (t *usbTransport) String() string           { return "usb" }
func (t *usbTransport) Prerequisites() []string   { return nil }

func (t *usbTransport) Start(ctx context.Context) (bool, error) {
	sup := reconnect.New()
	sessionAny, err := sup.Run(ctx, func(ctx context.Context) (interface{}, error) {
		return usb.Open()
	}, func(st reconnect.Status) {
		t.core.emit(Event{Kind: ReconnectStatusEvent, Transport: "usb", Reconnect: st})
	})
	if err != nil {
		return true, err
	}
	session := sessionAny.(*usb.Session)
	t.core.emit(Event{Kind: TransportStateChanged, Transport: "usb", TransportState: "CONNECTED"})

	go t.core.runUSBLoop(t.runCtx, session, sup)
	return true, nil
}

// runUSBLoop pumps USB chunks through the reassembler, parser, and shot
// machine until cancelled or the supervisor exhausts its retries. Two
// goroutines share the session's lifetime: one reads chunks, the other
// polls the machine for spin-wait timeouts; errgroup ties their errors
// and cancellation together so a read failure tears down the poller too.
func (c *Core) runUSBLoop(ctx context.Context, session *usb.Session, sup *reconnect.Supervisor) {
	defer close(c.usbDone)
	reassembler := protocol.NewReassembler(0)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		for {
			chunk, err := session.Next(gctx)
			if err != nil {
				c.emit(Event{Kind: TransportStateChanged, Transport: "usb", TransportState: "DISCONNECTED"})
				return err
			}
			if chunk == nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				continue
			}
			c.machineMu.Lock()
			events := reassembler.Feed(chunk)
			c.machineMu.Unlock()
			for _, ev := range events {
				c.handleProtocolEvent(ev)
			}
		}
	})
	group.Go(func() error {
		ticker := time.NewTicker(spinWaitPoll)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				c.machineMu.Lock()
				due := c.machine.Due()
				var results []shotOutcome
				for _, id := range due {
					vs, err := c.machine.Salvage(id)
					results = append(results, shotOutcome{vs, err})
				}
				c.machineMu.Unlock()
				for _, r := range results {
					c.reportShotOutcome(r.vs, r.err)
				}
			}
		}
	})

	err := group.Wait()
	session.Close()
	if err != nil && ctx.Err() == nil {
		// The session dropped out from under us (not a caller
		// cancellation); hand back to the supervisor for a fresh
		// session.
		sessionAny, rerr := sup.Run(ctx, func(ctx context.Context) (interface{}, error) {
			return usb.Open()
		}, func(st reconnect.Status) {
			c.emit(Event{Kind: ReconnectStatusEvent, Transport: "usb", Reconnect: st})
		})
		if rerr == nil {
			c.mu.Lock()
			c.usbDone = make(chan struct{})
			c.mu.Unlock()
			go c.runUSBLoop(ctx, sessionAny.(*usb.Session), sup)
		}
	}
}

type shotOutcome struct {
	vs  *shot.ValidatedShot
	err error
}

func (c *Core) handleProtocolEvent(ev protocol.Event) {
	switch ev.Kind {
	case protocol.EventFramingError:
		c.emit(Event{Kind: Diagnostic, Message: ev.Err.Error()})
	case protocol.EventMessage, protocol.EventSalvage:
		parsed, err := protocol.ParseMessage(ev.Message)
		if err != nil {
			c.emit(Event{Kind: Diagnostic, Message: err.Error()})
			return
		}
		switch f := parsed.(type) {
		case *protocol.ShotFrame:
			c.emit(Event{Kind: FrameReceived, Frame: f})
			// A salvage candidate from C1 still has to clear C3's own
			// completion/validation rules; feed it through Accept like
			// any other frame.
			c.machineMu.Lock()
			vs, aerr := c.machine.Accept(f)
			c.machineMu.Unlock()
			c.reportShotOutcome(vs, aerr)
		case *protocol.StatusFrame:
			c.emit(Event{Kind: StatusChanged, Status: f})
		}
	}
}

func (c *Core) reportShotOutcome(vs *shot.ValidatedShot, err error) {
	if err != nil {
		c.emit(Event{Kind: Diagnostic, Message: err.Error()})
	}
	if vs == nil {
		return
	}
	c.emit(Event{Kind: ShotValidated, Shot: vs})
	if rerr := c.routeShot(vs); rerr != nil {
		c.emit(Event{Kind: Diagnostic, Message: fmt.Sprintf("route shot %d: %v", vs.ShotID, rerr)})
	}
}

func (c *Core) routeShot(vs *shot.ValidatedShot) error {
	_, err := c.router.Route(vs)
	return err
}

// tcpTransport adapts the Open Connect client and its heartbeat loop to
// the drivers.Transport contract.
type tcpTransport struct {
	core   *Core
	runCtx context.Context
	host   string
	port   int
}

func (t *tcpTransport) String() string         { return "remote" }
func (t *tcpTransport) Prerequisites() []string { return nil }

func (t *tcpTransport) Start(ctx context.Context) (bool, error) {
	sup := reconnect.New()
	onState := func(s openconnect.State) {
		t.core.emit(Event{Kind: TransportStateChanged, Transport: "remote", TransportState: s.String()})
	}
	clientAny, err := sup.Run(ctx, func(ctx context.Context) (interface{}, error) {
		return openconnect.Dial(ctx, t.host, t.port, deviceID, onState)
	}, func(st reconnect.Status) {
		t.core.emit(Event{Kind: ReconnectStatusEvent, Transport: "remote", Reconnect: st})
	})
	if err != nil {
		return true, err
	}
	client := clientAny.(*openconnect.Client)
	t.core.mu.Lock()
	t.core.tcpClient = client
	t.core.mu.Unlock()

	go t.core.runHeartbeatLoop(t.runCtx, client)
	return true, nil
}

func (c *Core) runHeartbeatLoop(ctx context.Context, client *openconnect.Client) {
	defer close(c.tcpDone)
	ticker := time.NewTicker(openconnect.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if client.IdleSince() < openconnect.HeartbeatInterval {
				continue
			}
			if err := client.SendHeartbeat(ctx); err != nil {
				c.emit(Event{Kind: Diagnostic, Message: fmt.Sprintf("heartbeat: %v", err)})
				return
			}
		}
	}
}
