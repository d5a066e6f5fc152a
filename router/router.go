// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package router performs single-writer dispatch of validated shots to
// exactly one of two sinks, modeled as a small tagged variant rather than
// an open-ended interface hierarchy, per the design note in spec §9: the
// two sinks (remote TCP, local physics) share one method contract and
// nothing else.
package router

import (
	"sync"

	"github.com/google/gc2connect/shot"
)

// Mode selects which sink is active.
type Mode int

const (
	Remote Mode = iota
	Local
)

func (m Mode) String() string {
	if m == Remote {
		return "REMOTE"
	}
	return "LOCAL"
}

// Sink accepts a validated shot and reports success or a transport error.
// Both the TCP client adapter and the physics engine adapter implement
// this one method; the router never calls anything else on them.
type Sink interface {
	Dispatch(vs *shot.ValidatedShot) error
}

// Router holds the single active sink and assigns the process-lifetime
// monotonically increasing shot_number.
//
// Mode changes are atomic with respect to an in-flight Route call: a
// route in progress always completes against the sink it started with,
// and SetMode never leaves a window with no sink attached.
type Router struct {
	mu         sync.Mutex
	mode       Mode
	remote     Sink
	local      Sink
	shotNumber int
	onMode     func(Mode)
}

// New returns a Router starting in the given mode. remote and local may be
// attached later via SetSinks if they are not both ready at construction
// time.
func New(mode Mode, onMode func(Mode)) *Router {
	if onMode == nil {
		onMode = func(Mode) {}
	}
	return &Router{mode: mode, onMode: onMode}
}

// SetSinks attaches (or replaces) the two sinks. It does not change mode.
func (r *Router) SetSinks(remote, local Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remote = remote
	r.local = local
}

// Mode returns the currently active mode.
func (r *Router) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// SetMode switches the active sink. It is idempotent: setting the same
// mode is a no-op and does not notify subscribers again.
func (r *Router) SetMode(m Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode == m {
		return
	}
	r.mode = m
	r.onMode(m)
}

// RoutedShot is a ValidatedShot with its assigned shot_number attached,
// the unit the router hands to a sink.
type RoutedShot struct {
	*shot.ValidatedShot
	ShotNumber int
}

// Route assigns the next shot_number and dispatches to whichever sink is
// active at the moment the call is made. Sink errors propagate to the
// caller; the router does not retry.
func (r *Router) Route(vs *shot.ValidatedShot) (RoutedShot, error) {
	r.mu.Lock()
	r.shotNumber++
	n := r.shotNumber
	mode := r.mode
	sink := r.remote
	if mode == Local {
		sink = r.local
	}
	r.mu.Unlock()

	rs := RoutedShot{ValidatedShot: vs, ShotNumber: n}
	if sink == nil {
		return rs, nil
	}
	if err := sink.Dispatch(vs); err != nil {
		return rs, err
	}
	return rs, nil
}
