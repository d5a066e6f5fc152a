// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package drivers orders startup of the transports the composition root
// depends on: the USB device session and the Open Connect TCP client. It
// is a narrowed form of a driver registry: a transport declares its
// prerequisites, is registered with a Registry, and Start() brings them
// all up in dependency order, concurrently within a stage.
//
// Unlike a static hardware-driver registry, transports here are
// constructed fresh on every connect attempt (a TCP client needs a host
// and port the user supplies at runtime), so registration is scoped to a
// per-attempt Registry value rather than a package-level singleton.
package drivers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Transport is one startup-ordered component: the USB session, the TCP
// client, or (in principle) future transports.
type Transport interface {
	// String returns the transport's name, unique within a Registry.
	String() string
	// Prerequisites lists transport names that must have started
	// successfully before this one is attempted.
	Prerequisites() []string
	// Start brings the transport up. On success it returns true, nil. A
	// transport that is irrelevant in the current configuration returns
	// false, nil. A hard failure returns true, err.
	Start(ctx context.Context) (bool, error)
}

// Failure pairs a transport with the reason it didn't start.
type Failure struct {
	T   Transport
	Err error
}

func (f Failure) String() string {
	return fmt.Sprintf("%s: %v", f.T, f.Err)
}

// State is the outcome of a Start() call.
type State struct {
	Started []Transport
	Skipped []Failure
	Failed  []Failure
}

// Registry holds one connect attempt's set of transports. A fresh
// Registry should be built for each connect/reconnect cycle.
type Registry struct {
	mu         sync.Mutex
	registered []Transport
	byName     map[string]Transport
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: map[string]Transport{}}
}

// Register adds a transport to be started by Start(). It is an error to
// register two transports under the same name.
func (r *Registry) Register(t Transport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := t.String()
	if _, ok := r.byName[n]; ok {
		return fmt.Errorf("drivers: transport %q already registered", n)
	}
	r.byName[n] = t
	r.registered = append(r.registered, t)
	return nil
}

// MustRegister calls Register and panics on error.
func (r *Registry) MustRegister(t Transport) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Start brings up every registered transport in dependency order,
// starting all transports within a stage concurrently.
func (r *Registry) Start(ctx context.Context) (*State, error) {
	r.mu.Lock()
	drvs := append([]Transport(nil), r.registered...)
	names := make(map[string]struct{}, len(r.byName))
	for k := range r.byName {
		names[k] = struct{}{}
	}
	r.mu.Unlock()

	stages, err := explodeStages(drvs, names)
	if err != nil {
		return nil, err
	}

	state := &State{}
	started := map[string]struct{}{}
	for _, stage := range stages {
		startStage(ctx, stage, started, state)
	}

	sort.Slice(state.Started, func(i, j int) bool { return state.Started[i].String() < state.Started[j].String() })
	sort.Slice(state.Skipped, func(i, j int) bool { return state.Skipped[i].T.String() < state.Skipped[j].T.String() })
	sort.Slice(state.Failed, func(i, j int) bool { return state.Failed[i].T.String() < state.Failed[j].T.String() })
	return state, nil
}

func explodeStages(drvs []Transport, names map[string]struct{}) ([][]Transport, error) {
	dependencies := map[string]map[string]struct{}{}
	byN := map[string]Transport{}
	for _, d := range drvs {
		dependencies[d.String()] = map[string]struct{}{}
		byN[d.String()] = d
	}
	for _, d := range drvs {
		for _, dep := range d.Prerequisites() {
			if _, ok := names[dep]; !ok {
				return nil, fmt.Errorf("drivers: unsatisfied dependency %q->%q", d.String(), dep)
			}
			dependencies[d.String()][dep] = struct{}{}
		}
	}

	var stages [][]Transport
	for len(dependencies) != 0 {
		var stage []string
		var l []Transport
		for name, deps := range dependencies {
			if len(deps) == 0 {
				stage = append(stage, name)
				l = append(l, byN[name])
				delete(dependencies, name)
			}
		}
		if len(stage) == 0 {
			return nil, fmt.Errorf("drivers: cycle in transport dependencies: %v", dependencies)
		}
		stages = append(stages, l)
		for _, passed := range stage {
			for name := range dependencies {
				delete(dependencies[name], passed)
			}
		}
	}
	return stages, nil
}

func startStage(ctx context.Context, stage []Transport, started map[string]struct{}, state *State) {
	var wg sync.WaitGroup
	skip := make([]error, len(stage))
	for i, t := range stage {
		for _, dep := range t.Prerequisites() {
			if _, ok := started[dep]; !ok {
				skip[i] = fmt.Errorf("dependency not started: %q", dep)
				break
			}
		}
	}

	var smu sync.Mutex
	for i, t := range stage {
		if skip[i] != nil {
			smu.Lock()
			state.Skipped = append(state.Skipped, Failure{t, skip[i]})
			smu.Unlock()
			continue
		}
		wg.Add(1)
		go func(t Transport, idx int) {
			defer wg.Done()
			ok, err := t.Start(ctx)
			smu.Lock()
			defer smu.Unlock()
			if ok {
				if err == nil {
					state.Started = append(state.Started, t)
					return
				}
				state.Failed = append(state.Failed, Failure{t, err})
				skip[idx] = err
				return
			}
			if err == nil {
				err = errors.New("no reason was given")
			}
			state.Skipped = append(state.Skipped, Failure{t, err})
			skip[idx] = err
		}(t, i)
	}
	wg.Wait()

	for i, t := range stage {
		if skip[i] == nil {
			started[t.String()] = struct{}{}
		}
	}
}
