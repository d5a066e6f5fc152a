// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package flight

import (
	"math"
	"strings"
)

// maxBounceCount is the hard cap on bounces before the ball is forced into
// ROLLING regardless of how much vertical velocity remains.
const maxBounceCount = 5

// Surface names the ground material under the landing point, each with its
// own coefficient of restitution, friction, and rolling resistance.
type Surface int

const (
	Fairway Surface = iota
	Rough
	Green
	Bunker
)

func (s Surface) String() string {
	switch s {
	case Fairway:
		return "FAIRWAY"
	case Rough:
		return "ROUGH"
	case Green:
		return "GREEN"
	case Bunker:
		return "BUNKER"
	default:
		return "UNKNOWN"
	}
}

// ParseSurface maps a settings file's lowercase surface name to a Surface,
// defaulting to Fairway for an empty or unrecognized value rather than
// failing settings load over one bad field.
func ParseSurface(name string) Surface {
	switch strings.ToLower(name) {
	case "rough":
		return Rough
	case "green":
		return Green
	case "bunker":
		return Bunker
	default:
		return Fairway
	}
}

// surfaceProps holds a surface's bounce and roll constants, read-only per
// surface: cor is the coefficient of restitution on the normal (vertical)
// component of velocity, mu is the friction coefficient applied to the
// tangential component, and rr is the rolling-resistance coefficient.
type surfaceProps struct {
	cor float64
	mu  float64
	rr  float64
}

var surfaceTable = map[Surface]surfaceProps{
	Fairway: {cor: 0.60, mu: 0.50, rr: 0.10},
	Rough:   {cor: 0.30, mu: 0.70, rr: 0.30},
	Green:   {cor: 0.40, mu: 0.30, rr: 0.05},
	Bunker:  {cor: 0.20, mu: 0.80, rr: 0.50},
}

// Bounce applies one ground impact to the landing state. Velocity is
// decomposed into a normal (Z, vertical) and tangential (X/Y, horizontal)
// component: the normal component is reflected and scaled by the surface's
// coefficient of restitution, and the tangential magnitude is reduced by
// min(mu*|v_n|, |v_t|). Backspin bleeds off in proportion to the fraction
// of tangential velocity the friction impulse removed.
func Bounce(v Vector3, backSpinRPM float64, surf Surface) (Vector3, float64) {
	p := surfaceTable[surf]
	vn := v.Z
	vt := math.Hypot(v.X, v.Y)

	reduction := p.mu * math.Abs(vn)
	if reduction > vt {
		reduction = vt
	}
	tScale := 1.0
	if vt > 0 {
		tScale = (vt - reduction) / vt
	}

	out := Vector3{X: v.X * tScale, Y: v.Y * tScale, Z: -vn * p.cor}
	return out, backSpinRPM * tScale
}

// Roll advances the ball from the start of the rolling phase until rolling
// resistance and the small backspin-signed correction bring it to a stop,
// returning the additional ground distance traveled in flight-path X/Y and
// the time elapsed.
func Roll(v Vector3, backSpinRPM float64, surf Surface) (Vector3, float64) {
	p := surfaceTable[surf]
	speed := math.Hypot(v.X, v.Y)
	if speed < 0.1 {
		return Vector3{}, 0
	}

	a := math.Max(0.5, p.rr*gravityMPS2)
	// Backspin checks the roll slightly, topspin extends it; the effect
	// is small and always stays below the spec's 0.3 m/s^2 bound.
	spinTerm := 0.3 * math.Tanh(backSpinRPM/3000)
	a += spinTerm
	if a < 0.1 {
		a = 0.1
	}

	tStop := speed / a
	dist := speed*tStop - 0.5*a*tStop*tStop
	if dist < 0 {
		dist = 0
	}
	ux, uy := v.X/speed, v.Y/speed
	return Vector3{X: ux * dist, Y: uy * dist}, tStop
}

// Settle runs the full bounce-then-roll sequence starting from the
// trajectory's landing point and velocity, returning the additional
// ground-path points appended after the last air point and the final
// resting position. maxBounces is clamped to the spec's hard cap of 5; the
// rolling transition can also trigger earlier, as soon as a bounce leaves
// less than 1 m/s of vertical velocity.
func Settle(landing TrajectoryPoint, backSpinRPM float64, surf Surface, maxBounces int) ([]TrajectoryPoint, Vector3) {
	if maxBounces <= 0 || maxBounces > maxBounceCount {
		maxBounces = maxBounceCount
	}
	var extra []TrajectoryPoint
	pos := landing.Position
	vel := landing.Velocity
	t := landing.TimeS
	spin := backSpinRPM

	for i := 0; i < maxBounces; i++ {
		bounced, nextSpin := Bounce(vel, spin, surf)
		spin = nextSpin
		bounceNum := i + 1

		if math.Abs(bounced.Z) < 1.0 || bounceNum == maxBounceCount {
			vel = Vector3{X: bounced.X, Y: bounced.Y, Z: 0}
			break
		}

		airTime := 2 * bounced.Z / gravityMPS2
		pos.X += bounced.X * airTime
		pos.Y += bounced.Y * airTime
		t += airTime
		vel = Vector3{X: bounced.X, Y: bounced.Y, Z: -bounced.Z}
		extra = append(extra, TrajectoryPoint{TimeS: t, Position: pos, Velocity: vel})
	}

	rollDelta, rollTime := Roll(vel, spin, surf)
	final := Vector3{X: pos.X + rollDelta.X, Y: pos.Y + rollDelta.Y, Z: 0}
	t += rollTime
	extra = append(extra, TrajectoryPoint{TimeS: t, Position: final, Velocity: Vector3{}})
	return extra, final
}
