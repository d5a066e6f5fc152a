// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package aero computes the aerodynamic coefficients and ambient air
// density used by the trajectory integrator in the flight package. Inputs
// and outputs at the package boundary use conn/physic's unit types so a
// caller can never pass a bare float64 of ambiguous unit; internally the
// formulas work in SI floats, as the source constants are conventionally
// expressed.
package aero

import (
	"math"

	"github.com/google/gc2connect/conn/physic"
)

// ballDiameter and ballMass are a regulation golf ball, used to compute
// Reynolds number and the drag/lift force magnitudes.
const (
	ballDiameterM = 0.04267
	ballMassKg    = 0.04593
	ballAreaM2    = math.Pi * (ballDiameterM / 2) * (ballDiameterM / 2)
)

// kinematicViscosityAirM2PerS is air's kinematic viscosity near sea level
// at 15°C, used as a fixed constant rather than temperature-corrected: the
// drag model's sensitivity to it is small next to the other inputs.
const kinematicViscosityAirM2PerS = 1.5e-5

// Reynolds returns the dimensionless Reynolds number for a ball moving at
// speed through air of the given density, used to select the drag
// coefficient's piecewise-linear region.
func Reynolds(speed physic.Speed, density AirDensity) float64 {
	v := float64(speed) / float64(physic.MetrePerSecond)
	return v * ballDiameterM / kinematicViscosityAirM2PerS
}

// dragRe0, dragCd0 and dragRe1, dragCd1 are the two anchor points of the
// drag coefficient's linear region: flat at 0.500 below Re=5e4, flat at
// 0.212 above Re=1e5, linear in between.
const (
	dragRe0 = 5e4
	dragCd0 = 0.500
	dragRe1 = 1e5
	dragCd1 = 0.212
)

// spinRatio is dimensionless spin factor S = r*omega/v used by both Cd's
// spin term and Cl.
func spinRatio(spinRPM, speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	omega := spinRPM * 2 * math.Pi / 60
	return (ballDiameterM / 2) * omega / speed
}

// DragCoefficient interpolates the two-point linear base curve at the given
// Reynolds number and adds a spin-dependent increment.
func DragCoefficient(re float64, backSpinRPM, speedMPS float64) float64 {
	var cd0 float64
	switch {
	case re <= dragRe0:
		cd0 = dragCd0
	case re >= dragRe1:
		cd0 = dragCd1
	default:
		frac := (re - dragRe0) / (dragRe1 - dragRe0)
		cd0 = dragCd0 + frac*(dragCd1-dragCd0)
	}
	s := spinRatio(backSpinRPM, speedMPS)
	if s > 0.4 {
		s = 0.4
	}
	return cd0 + 0.15*s
}

// LiftCoefficient returns the Magnus lift coefficient as a function of spin
// ratio: cl(S) = clamp(1.990*S - 3.250*S^2, 0, 0.305).
func LiftCoefficient(backSpinRPM, speedMPS float64) float64 {
	s := spinRatio(backSpinRPM, speedMPS)
	cl := 1.990*s - 3.250*s*s
	if cl < 0 {
		cl = 0
	}
	if cl > 0.305 {
		cl = 0.305
	}
	return cl
}

// AirDensity is a derived quantity (kg/m^3) computed from ambient
// conditions; kept as its own named float64 rather than reusing
// physic.Density because conn/physic does not define one.
type AirDensity float64

// Conditions bundles the ambient inputs to the air-density formula. Zero
// values are not physically meaningful; callers must supply real readings
// or sea-level/room-temperature defaults.
type Conditions struct {
	Temperature      physic.Temperature
	ElevationFt      float64
	RelativeHumidity physic.RelativeHumidity
	PressureInHg     physic.Pressure
}

// pascalsPerMMHg and mmHgPerHPa convert the station pressure reading and
// the Magnus saturation vapor pressure into the mmHg-denominated units the
// density formula's /760 term expects.
const (
	pascalsPerMMHg = 133.322
	mmHgPerHPa     = 0.750062
)

// AirDensityFor computes air density from ambient conditions: station
// pressure is corrected for elevation by the isothermal scale-height
// approximation exp(-elev_ft/27000), saturation vapor pressure comes from
// the Magnus formula, and the two combine in the closed-form density
// equation rho = 1.2929 * (273.15/T_K) * ((P - 0.3783*e)/760).
func AirDensityFor(c Conditions) AirDensity {
	tC := float64(c.Temperature-physic.ZeroCelsius) / float64(physic.Celsius)
	tK := tC + 273.15

	stationMMHg := float64(c.PressureInHg) / float64(physic.Pascal) / pascalsPerMMHg
	pressureMMHg := stationMMHg * math.Exp(-c.ElevationFt/27000)

	// Magnus formula for saturation vapor pressure, in hPa, then to mmHg.
	satVaporHPa := 6.1094 * math.Exp(17.625*tC/(tC+243.04))
	// c.RelativeHumidity is fixed-point at 0.00001%rH; scale to a 0..1 fraction.
	rhFraction := float64(c.RelativeHumidity) * 1e-7
	vaporPressureMMHg := rhFraction * satVaporHPa * mmHgPerHPa

	density := 1.2929 * (273.15 / tK) * ((pressureMMHg - 0.3783*vaporPressureMMHg) / 760)
	return AirDensity(density)
}

// StandardConditions is sea level, 70°F, 50% relative humidity, and
// standard pressure: the default used when no station data is available.
func StandardConditions() Conditions {
	return Conditions{
		Temperature:      physic.ZeroFahrenheit + 70*physic.Fahrenheit,
		ElevationFt:      0,
		RelativeHumidity: 50 * physic.PercentRH,
		PressureInHg:     101325 * physic.Pascal,
	}
}

// DragForce and LiftForce return force magnitudes in Newtons for use by
// the trajectory integrator's acceleration terms.
func DragForce(cd float64, density AirDensity, speedMPS float64) float64 {
	return 0.5 * float64(density) * speedMPS * speedMPS * cd * ballAreaM2
}

func LiftForce(cl float64, density AirDensity, speedMPS float64) float64 {
	return 0.5 * float64(density) * speedMPS * speedMPS * cl * ballAreaM2
}

// BallMassKg exposes the fixed ball mass used throughout the flight
// package's Newton's-second-law acceleration terms.
func BallMassKg() float64 { return ballMassKg }
