// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package flight integrates a validated shot's launch conditions into a
// full trajectory: flight through the air via RK4, then ground bounce and
// roll, orchestrated into a single ShotResult.
package flight

import (
	"math"

	"github.com/google/gc2connect/conn/physic"
	"github.com/google/gc2connect/flight/aero"
)

// dt is the RK4 integration step. 0.01s balances accuracy against the
// <100ms wall-clock target for a full shot.
const dt = 0.01

// maxFlightSeconds bounds a pathological trajectory (e.g. a backspin value
// that never lets the ball descend) so the integrator always terminates;
// maxPoints bounds how many samples Fly records over that span.
const (
	maxFlightSeconds = 30.0
	maxPoints        = 600
)

const gravityMPS2 = 9.80665

// logWindRefHeightM and windRoughnessM parameterize the logarithmic wind
// profile: wind speed grows with height above ground per the standard
// log-law used in micrometeorology.
const (
	logWindRefHeightM = 10.0
	windRoughnessM    = 0.03
)

// Vector3 is a position or velocity in flight-path coordinates: X
// downrange, Y lateral (positive = toward the slice side), Z vertical.
type Vector3 struct {
	X, Y, Z float64
}

// TrajectoryPoint is one integrator sample, exported so callers can render
// or export the full path.
type TrajectoryPoint struct {
	TimeS    float64
	Position Vector3
	Velocity Vector3
}

// LaunchConditions is the flight package's input shape, decoupled from
// shot.ValidatedShot so this package has no dependency on the protocol
// layer.
type LaunchConditions struct {
	BallSpeedMPH float64
	VLADeg       float64
	HLADeg       float64
	BackSpinRPM  float64
	SideSpinRPM  float64
	SpinAxisDeg  float64
}

// Wind describes a steady wind at the reference height, coming from the
// direction HeadingDeg measured from downrange toward the +Y side (0 =
// headwind into the shot, 180 = tailwind, 90 = crosswind from the +Y side
// blowing toward -Y).
type Wind struct {
	SpeedMPH float64
	HeadingDeg float64
}

// state is the RK4 integrator's 6-vector: position and velocity.
type state struct {
	pos Vector3
	vel Vector3
}

func (a state) add(b state) state {
	return state{
		pos: Vector3{a.pos.X + b.pos.X, a.pos.Y + b.pos.Y, a.pos.Z + b.pos.Z},
		vel: Vector3{a.vel.X + b.vel.X, a.vel.Y + b.vel.Y, a.vel.Z + b.vel.Z},
	}
}

func (a state) scale(k float64) state {
	return state{
		pos: Vector3{a.pos.X * k, a.pos.Y * k, a.pos.Z * k},
		vel: Vector3{a.vel.X * k, a.vel.Y * k, a.vel.Z * k},
	}
}

// integrator holds the fields constant over one flight: spin decay,
// ambient density, and wind.
type integrator struct {
	density     aero.AirDensity
	backSpinRPM float64
	sideSpinRPM float64
	windXMPS    float64 // along downrange axis
	windYMPS    float64 // lateral
}

// spinDecayPerSecond models the roughly 3%-per-second decay golf-ball
// backspin exhibits in flight due to air resistance on the dimpled
// surface.
const spinDecayPerSecond = 0.03

func windAtHeight(refSpeedMPS, heightM float64) float64 {
	if heightM < windRoughnessM {
		heightM = windRoughnessM
	}
	return refSpeedMPS * math.Log(heightM/windRoughnessM) / math.Log(logWindRefHeightM/windRoughnessM)
}

func (in *integrator) derivative(s state, elapsed float64) state {
	spin := in.backSpinRPM * math.Exp(-spinDecayPerSecond*elapsed)

	windScale := 1.0
	if s.pos.Z > 0 {
		profileAt := windAtHeight(1, s.pos.Z)
		profileRef := windAtHeight(1, logWindRefHeightM)
		if profileRef != 0 {
			windScale = profileAt / profileRef
		}
	}
	relVX := s.vel.X - in.windXMPS*windScale
	relVY := s.vel.Y - in.windYMPS*windScale
	relVZ := s.vel.Z
	speed := math.Sqrt(relVX*relVX + relVY*relVY + relVZ*relVZ)

	var ax, ay, az float64
	if speed > 1e-6 {
		re := aero.Reynolds(physic.Speed(speed*float64(physic.MetrePerSecond)), in.density)
		cd := aero.DragCoefficient(re, spin, speed)
		cl := aero.LiftCoefficient(spin, speed)
		dragMag := aero.DragForce(cd, in.density, speed) / aero.BallMassKg()
		liftMag := aero.LiftForce(cl, in.density, speed) / aero.BallMassKg()

		// Drag opposes relative velocity.
		ax -= dragMag * relVX / speed
		ay -= dragMag * relVY / speed
		az -= dragMag * relVZ / speed

		// Magnus lift acts perpendicular to velocity and the spin axis;
		// for backspin the lift vector points generally upward, rotated
		// in the horizontal plane by the spin axis tilt (side spin).
		axisRad := in.sideSpinAxisRad()
		ux, uy, uz := relVX/speed, relVY/speed, relVZ/speed
		ax += liftMag * (-math.Cos(axisRad)*uz - math.Sin(axisRad)*uy)
		ay += liftMag * math.Sin(axisRad) * ux
		az += liftMag * math.Cos(axisRad) * ux
	}
	az -= gravityMPS2

	return state{pos: s.vel, vel: Vector3{ax, ay, az}}
}

func (in *integrator) sideSpinAxisRad() float64 {
	return math.Atan2(in.sideSpinRPM, maxFloat(in.backSpinRPM, 1))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// mphToMPS and conversions kept local to avoid importing conn/physic into
// every arithmetic line; the package boundary still speaks physic types.
func mphToMPS(mph float64) float64 { return mph * 0.44704 }

// Fly integrates the launch conditions into a full air trajectory, from
// the tee to the point the ball first touches the ground (Z crosses back
// to 0 from above), in flight-path coordinates with X downrange.
func Fly(lc LaunchConditions, density aero.AirDensity, wind Wind) []TrajectoryPoint {
	speedMPS := mphToMPS(lc.BallSpeedMPH)
	vlaRad := lc.VLADeg * math.Pi / 180
	hlaRad := lc.HLADeg * math.Pi / 180

	v0 := state{
		pos: Vector3{0, 0, 0},
		vel: Vector3{
			X: speedMPS * math.Cos(vlaRad) * math.Cos(hlaRad),
			Y: speedMPS * math.Cos(vlaRad) * math.Sin(hlaRad),
			Z: speedMPS * math.Sin(vlaRad),
		},
	}

	// windXMPS/windYMPS are the velocity the air itself moves at. A
	// headwind (HeadingDeg=0) blows toward the tee, i.e. in the -X
	// direction, so it is the negative of the heading's cosine/sine.
	windMPS := mphToMPS(wind.SpeedMPH)
	windRad := wind.HeadingDeg * math.Pi / 180
	in := &integrator{
		density:     density,
		backSpinRPM: lc.BackSpinRPM,
		sideSpinRPM: lc.SideSpinRPM,
		windXMPS:    -windMPS * math.Cos(windRad),
		windYMPS:    -windMPS * math.Sin(windRad),
	}

	// Record every sampleEvery-th step so that a flight lasting the full
	// maxFlightSeconds still fits in maxPoints samples.
	sampleEvery := int(math.Ceil(maxFlightSeconds / dt / float64(maxPoints-2)))
	points := []TrajectoryPoint{{TimeS: 0, Position: v0.pos, Velocity: v0.vel}}
	s := v0
	t := 0.0
	for step := 1; t < maxFlightSeconds; step++ {
		next := rk4Step(in, s, t, dt)
		t += dt
		if next.pos.Z <= 0 && s.pos.Z > 0 {
			frac := s.pos.Z / (s.pos.Z - next.pos.Z)
			land := state{
				pos: Vector3{
					X: s.pos.X + frac*(next.pos.X-s.pos.X),
					Y: s.pos.Y + frac*(next.pos.Y-s.pos.Y),
					Z: 0,
				},
				vel: Vector3{
					X: s.vel.X + frac*(next.vel.X-s.vel.X),
					Y: s.vel.Y + frac*(next.vel.Y-s.vel.Y),
					Z: s.vel.Z + frac*(next.vel.Z-s.vel.Z),
				},
			}
			points = append(points, TrajectoryPoint{TimeS: t - dt + frac*dt, Position: land.pos, Velocity: land.vel})
			return points
		}
		s = next
		if step%sampleEvery == 0 {
			points = append(points, TrajectoryPoint{TimeS: t, Position: s.pos, Velocity: s.vel})
		}
	}
	return points
}

func rk4Step(in *integrator, s state, t, h float64) state {
	k1 := in.derivative(s, t)
	k2 := in.derivative(s.add(k1.scale(h/2)), t+h/2)
	k3 := in.derivative(s.add(k2.scale(h/2)), t+h/2)
	k4 := in.derivative(s.add(k3.scale(h)), t+h)
	sum := k1.add(k2.scale(2)).add(k3.scale(2)).add(k4)
	return s.add(sum.scale(h / 6))
}
