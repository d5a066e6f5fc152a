// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package flight

import (
	"math"
	"strconv"

	"github.com/google/gc2connect/flight/aero"
)

// ShotResult is the full simulated outcome of one shot: the air
// trajectory, the bounce/roll path appended to it, and the summary
// figures derived from both.
type ShotResult struct {
	Trajectory []TrajectoryPoint
	Summary    ShotSummary
}

// ShotSummary is the compact, display-ready set of figures a local
// simulation sink reports, mirroring the figures a real launch-monitor
// display shows after a shot: carry, total, offline, and apex.
type ShotSummary struct {
	CarryYards     float64
	TotalYards     float64
	OfflineYards   float64
	ApexFeet       float64
	FlightTimeS    float64
	DescentAngleDeg float64
}

// Engine runs the bounce/roll/aerodynamics pipeline for a given ambient
// condition and surface, reused across shots so callers don't have to
// recompute air density per shot.
type Engine struct {
	Conditions aero.Conditions
	Surface    Surface
	Wind       Wind
	Bounces    int
}

// NewEngine returns an Engine configured with standard conditions, no
// wind, a fairway landing surface, and the full bounce count before the
// rolling transition takes over.
func NewEngine() *Engine {
	return &Engine{
		Conditions: aero.StandardConditions(),
		Surface:    Fairway,
		Wind:       Wind{},
		Bounces:    maxBounceCount,
	}
}

// Simulate runs the full pipeline for one shot's launch conditions and
// returns the trajectory and summary. It is expected to complete in under
// 100ms for typical launch conditions; the dt and maxPoints constants are
// tuned to that budget.
func (e *Engine) Simulate(lc LaunchConditions) ShotResult {
	density := aero.AirDensityFor(e.Conditions)
	air := Fly(lc, density, e.Wind)
	landing := air[len(air)-1]

	ground, final := Settle(landing, lc.BackSpinRPM, e.Surface, e.Bounces)
	full := append(append([]TrajectoryPoint{}, air...), ground...)

	apexFeet := 0.0
	for _, p := range air {
		if ft := p.Position.Z * 3.28084; ft > apexFeet {
			apexFeet = ft
		}
	}

	descentDeg := 0.0
	if n := len(air); n >= 2 {
		last, prev := air[n-1], air[n-2]
		dx := math.Hypot(last.Position.X-prev.Position.X, last.Position.Y-prev.Position.Y)
		dz := prev.Position.Z - last.Position.Z
		if dx > 0 {
			descentDeg = math.Atan2(dz, dx) * 180 / math.Pi
		}
	}

	carryYards := math.Hypot(landing.Position.X, landing.Position.Y) * 1.09361
	totalYards := math.Hypot(final.X, final.Y) * 1.09361
	offlineYards := landing.Position.Y * 1.09361

	return ShotResult{
		Trajectory: full,
		Summary: ShotSummary{
			CarryYards:      carryYards,
			TotalYards:      totalYards,
			OfflineYards:    offlineYards,
			ApexFeet:        apexFeet,
			FlightTimeS:     landing.TimeS,
			DescentAngleDeg: descentDeg,
		},
	}
}

// CSVRecord renders a ShotSummary as a single CSV row (no header), the
// hook the composition root's export feature writes one line per shot
// through.
func (s ShotSummary) CSVRecord() []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	return []string{
		f(s.CarryYards), f(s.TotalYards), f(s.OfflineYards),
		f(s.ApexFeet), f(s.FlightTimeS), f(s.DescentAngleDeg),
	}
}

// CSVHeader names the columns CSVRecord produces, in order.
func CSVHeader() []string {
	return []string{"carry_yds", "total_yds", "offline_yds", "apex_ft", "flight_time_s", "descent_angle_deg"}
}
