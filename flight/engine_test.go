// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package flight

import "testing"

func TestEngine_SimulateProducesPlausibleDriverCarry(t *testing.T) {
	e := NewEngine()
	result := e.Simulate(typicalDriverLaunch())
	// A well-struck driver typically carries 220-290 yards; this is a
	// loose sanity bound on the whole pipeline, not a physics assertion.
	if result.Summary.CarryYards < 150 || result.Summary.CarryYards > 320 {
		t.Fatalf("carry = %v yards, want a plausible driver range", result.Summary.CarryYards)
	}
	if result.Summary.TotalYards < result.Summary.CarryYards {
		t.Fatalf("total (%v) should be >= carry (%v)", result.Summary.TotalYards, result.Summary.CarryYards)
	}
	if result.Summary.ApexFeet <= 0 {
		t.Fatalf("apex = %v, want positive", result.Summary.ApexFeet)
	}
}

// TestEngine_DriverScenarioMatchesCarryBand is scenario 1: a clean refined
// driver frame (167 mph, 10.9deg VLA, 2686 rpm backspin, no side spin)
// should carry 261.25-288.75 yards.
func TestEngine_DriverScenarioMatchesCarryBand(t *testing.T) {
	e := NewEngine()
	lc := LaunchConditions{
		BallSpeedMPH: 167.0,
		VLADeg:       10.9,
		HLADeg:       0.0,
		BackSpinRPM:  2686,
		SideSpinRPM:  0,
	}
	result := e.Simulate(lc)
	if result.Summary.CarryYards < 261.25 || result.Summary.CarryYards > 288.75 {
		t.Fatalf("carry = %v yards, want [261.25, 288.75]", result.Summary.CarryYards)
	}
}

// TestEngine_SevenIronDrawScenarioMatchesCarryBand is scenario 2: a 7-iron
// with a slight draw (120 mph, 16.3deg VLA, -400 rpm side spin) should
// carry 163.4-180.6 yards and finish left of the target line.
func TestEngine_SevenIronDrawScenarioMatchesCarryBand(t *testing.T) {
	e := NewEngine()
	lc := LaunchConditions{
		BallSpeedMPH: 120.0,
		VLADeg:       16.3,
		HLADeg:       0.0,
		BackSpinRPM:  7097,
		SideSpinRPM:  -400,
	}
	result := e.Simulate(lc)
	if result.Summary.CarryYards < 163.4 || result.Summary.CarryYards > 180.6 {
		t.Fatalf("carry = %v yards, want [163.4, 180.6]", result.Summary.CarryYards)
	}
	if result.Summary.OfflineYards >= 0 {
		t.Fatalf("offline = %v, want negative (left)", result.Summary.OfflineYards)
	}
}

func TestEngine_BunkerShortensRollOverFairway(t *testing.T) {
	lc := typicalDriverLaunch()
	fairway := NewEngine()
	bunker := NewEngine()
	bunker.Surface = Bunker

	rf := fairway.Simulate(lc)
	rb := bunker.Simulate(lc)
	fairwayRoll := rf.Summary.TotalYards - rf.Summary.CarryYards
	bunkerRoll := rb.Summary.TotalYards - rb.Summary.CarryYards
	if bunkerRoll >= fairwayRoll {
		t.Fatalf("bunker roll (%v) should be less than fairway roll (%v)", bunkerRoll, fairwayRoll)
	}
}

func TestShotSummary_CSVRecordMatchesHeaderLength(t *testing.T) {
	e := NewEngine()
	s := e.Simulate(typicalDriverLaunch()).Summary
	if got, want := len(s.CSVRecord()), len(CSVHeader()); got != want {
		t.Fatalf("CSVRecord has %d fields, header has %d", got, want)
	}
}
