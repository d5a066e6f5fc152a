// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package shot tracks per-shot-id accumulation of GC2 frames through a
// preliminary/refined/salvage lifecycle and applies the completion and
// validation policy that turns a ShotFrame into a ValidatedShot.
package shot

import (
	"math"
	"strconv"
	"time"

	"github.com/google/gc2connect/protocol"
)

// RefinedThresholdMillis is the MSEC_SINCE_CONTACT boundary below which a
// frame is considered preliminary. It is a heuristic carried over from the
// device's observed behavior, named here so it can be tuned without
// hunting through the state machine.
const RefinedThresholdMillis = 500

// SpinWaitTimeout is how long the machine waits, from the first frame of a
// shot id, for a refined frame before salvaging with defaults.
const SpinWaitTimeout = 1500 * time.Millisecond

// Default values used when a shot is salvaged without a full frame.
const (
	DefaultVLADeg = 20.0
	DefaultHLADeg = 0.0
)

// ErrorSentinelBackSpin is the device's reported-error value for back spin;
// frames carrying it are always rejected.
const ErrorSentinelBackSpin = 2222

// State is one of the shot accumulator's lifecycle states.
type State int

const (
	StateIdle State = iota
	StatePreliminary
	StateRefined
	StateSalvage
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePreliminary:
		return "PRELIMINARY"
	case StateRefined:
		return "REFINED"
	case StateSalvage:
		return "SALVAGE"
	default:
		return "UNKNOWN"
	}
}

// ValidatedShot is a ShotFrame that has cleared completion and validation.
type ValidatedShot struct {
	ShotID        int
	AcceptedAt    time.Time
	BallSpeedMPH  float64
	VLADeg        float64
	HLADeg        float64
	TotalSpinRPM  float64
	BackSpinRPM   float64
	SideSpinRPM   float64
	SpinAxisDeg   float64
	Incomplete    bool

	HasClubData     bool
	ClubSpeedMPH    float64
	PathHDeg        float64
	PathVDeg        float64
	FaceToTargetDeg float64
	LieDeg          float64
	LoftDeg         float64
}

// RejectReason explains why ValidationRejected was returned.
type RejectReason string

const (
	RejectZeroSpin       RejectReason = "zero back and side spin"
	RejectErrorSentinel  RejectReason = "back spin error sentinel (2222)"
	RejectSpeedOutOfRange RejectReason = "ball speed out of range"
	RejectDuplicate      RejectReason = "duplicate shot id"
)

// ValidationRejected is the error kind surfaced when a completed frame
// fails validation; the shot is discarded, not retried.
type ValidationRejected struct {
	ShotID int
	Reason RejectReason
}

func (e *ValidationRejected) Error() string {
	return "shot: rejected shot " + strconv.Itoa(e.ShotID) + ": " + string(e.Reason)
}

// accumulator holds the frames seen for one shot id while it is in flight.
type accumulator struct {
	state      State
	firstSeen  time.Time
	prelim     *protocol.ShotFrame // most recent preliminary frame, used to seed missing fields
	refined    *protocol.ShotFrame
}

// Machine runs the per-shot-id state machine for an entire device session.
// It is not safe for concurrent use; it is driven from the single USB read
// loop.
type Machine struct {
	now     func() time.Time
	active  map[int]*accumulator
	emitted map[int]bool // shot ids that have already produced a ValidatedShot
}

// NewMachine returns an empty Machine. now defaults to time.Now if nil; it
// is a parameter so tests can control the spin-wait clock.
func NewMachine(now func() time.Time) *Machine {
	if now == nil {
		now = time.Now
	}
	return &Machine{now: now, active: map[int]*accumulator{}, emitted: map[int]bool{}}
}

// Accept feeds a freshly parsed shot frame into the machine. It returns a
// ValidatedShot if the frame (or a merge with frames already seen for this
// id) completes and validates, and an error describing why a frame was
// rejected outright. Both may be nil: most preliminary frames produce
// neither.
func (m *Machine) Accept(f *protocol.ShotFrame) (*ValidatedShot, error) {
	if f.ShotID == nil {
		return nil, nil
	}
	id := *f.ShotID
	if m.emitted[id] {
		return nil, &ValidationRejected{ShotID: id, Reason: RejectDuplicate}
	}
	acc, ok := m.active[id]
	if !ok {
		acc = &accumulator{state: StateIdle, firstSeen: m.now()}
		m.active[id] = acc
	}

	refined := f.MsecSinceContact != nil && *f.MsecSinceContact >= RefinedThresholdMillis
	if refined {
		acc.state = StateRefined
		acc.refined = merge(acc.refined, f)
	} else {
		acc.state = StatePreliminary
		acc.prelim = merge(acc.prelim, f)
		// Preliminary frames are never emitted, only retained to seed a
		// later refined frame.
		return nil, nil
	}

	merged := merge(acc.prelim, acc.refined)
	if !isComplete(merged) {
		return nil, nil
	}
	return m.finish(id, acc, merged, false)
}

// Salvage is called by the caller for a shot id that Due reported, when
// that shot id's refined frame never arrived. It applies the relaxed salvage rule: if shot id and
// ball speed are present, emit with incomplete=true and defaulted angles.
func (m *Machine) Salvage(id int) (*ValidatedShot, error) {
	acc, ok := m.active[id]
	if !ok || m.emitted[id] {
		return nil, nil
	}
	acc.state = StateSalvage
	merged := merge(acc.prelim, acc.refined)
	if merged == nil || merged.BallSpeedMPH == nil {
		delete(m.active, id)
		return nil, nil
	}
	return m.finish(id, acc, merged, true)
}

// Due returns the shot ids whose spin-wait timeout has elapsed, that have
// not yet produced a ValidatedShot and that have not received a refined
// frame, so the caller can drive Salvage for each of them.
func (m *Machine) Due() []int {
	now := m.now()
	var out []int
	for id, acc := range m.active {
		if acc.state == StateRefined {
			continue // a refined frame arrived but was incomplete; it is not salvaged
		}
		if now.Sub(acc.firstSeen) >= SpinWaitTimeout {
			out = append(out, id)
		}
	}
	return out
}

func (m *Machine) finish(id int, acc *accumulator, merged *protocol.ShotFrame, salvaged bool) (*ValidatedShot, error) {
	backSpin := floatOr(merged.BackSpinRPM, 0)
	sideSpin := floatOr(merged.SideSpinRPM, 0)

	// A salvaged shot never got a refined frame at all, so zero spin just
	// means "no spin data arrived," not "the device reported zero spin";
	// the zero-spin rejection only applies to a frame that completed
	// normally.
	if !salvaged && backSpin == 0 && sideSpin == 0 {
		delete(m.active, id)
		return nil, &ValidationRejected{ShotID: id, Reason: RejectZeroSpin}
	}
	if backSpin == ErrorSentinelBackSpin {
		delete(m.active, id)
		return nil, &ValidationRejected{ShotID: id, Reason: RejectErrorSentinel}
	}
	speed := floatOr(merged.BallSpeedMPH, 0)
	if speed <= 0 || speed > 250 {
		delete(m.active, id)
		return nil, &ValidationRejected{ShotID: id, Reason: RejectSpeedOutOfRange}
	}

	vla := DefaultVLADeg
	if merged.VLADeg != nil {
		vla = *merged.VLADeg
	}
	hla := DefaultHLADeg
	if merged.HLADeg != nil {
		hla = *merged.HLADeg
	}

	vs := &ValidatedShot{
		ShotID:       id,
		AcceptedAt:   m.now(),
		BallSpeedMPH: speed,
		VLADeg:       vla,
		HLADeg:       hla,
		TotalSpinRPM: floatOr(merged.TotalSpinRPM, 0),
		BackSpinRPM:  backSpin,
		SideSpinRPM:  sideSpin,
		SpinAxisDeg:  spinAxisDeg(backSpin, sideSpin),
		Incomplete:   salvaged,
	}
	if merged.HasHMT {
		vs.HasClubData = true
		vs.ClubSpeedMPH = floatOr(merged.ClubSpeedMPH, 0)
		vs.PathHDeg = floatOr(merged.PathHDeg, 0)
		vs.PathVDeg = floatOr(merged.PathVDeg, 0)
		vs.FaceToTargetDeg = floatOr(merged.FaceToTargetDeg, 0)
		vs.LieDeg = floatOr(merged.LieDeg, 0)
		vs.LoftDeg = floatOr(merged.LoftDeg, 0)
	}

	m.emitted[id] = true
	delete(m.active, id)
	return vs, nil
}

// spinAxisDeg computes atan2(side, back) in degrees. By definition it is 0
// when back spin is 0, regardless of side spin.
func spinAxisDeg(back, side float64) float64 {
	if back == 0 {
		return 0
	}
	return math.Atan2(side, back) * 180 / math.Pi
}

// isComplete reports whether a frame carries enough data to emit
// immediately: shot id, ball speed, and at least one spin component.
func isComplete(f *protocol.ShotFrame) bool {
	if f == nil || f.ShotID == nil || f.BallSpeedMPH == nil {
		return false
	}
	return f.BackSpinRPM != nil || f.SideSpinRPM != nil
}

// merge folds newer non-nil fields from b on top of a, keeping a's fields
// where b is silent. Either may be nil.
func merge(a, b *protocol.ShotFrame) *protocol.ShotFrame {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := *a
	if b.ShotID != nil {
		out.ShotID = b.ShotID
	}
	if b.MsecSinceContact != nil {
		out.MsecSinceContact = b.MsecSinceContact
	}
	if b.BallSpeedMPH != nil {
		out.BallSpeedMPH = b.BallSpeedMPH
	}
	if b.VLADeg != nil {
		out.VLADeg = b.VLADeg
	}
	if b.HLADeg != nil {
		out.HLADeg = b.HLADeg
	}
	if b.TotalSpinRPM != nil {
		out.TotalSpinRPM = b.TotalSpinRPM
	}
	if b.BackSpinRPM != nil {
		out.BackSpinRPM = b.BackSpinRPM
	}
	if b.SideSpinRPM != nil {
		out.SideSpinRPM = b.SideSpinRPM
	}
	if b.HasHMT {
		out.HasHMT = true
	}
	if b.ClubSpeedMPH != nil {
		out.ClubSpeedMPH = b.ClubSpeedMPH
	}
	if b.PathHDeg != nil {
		out.PathHDeg = b.PathHDeg
	}
	if b.PathVDeg != nil {
		out.PathVDeg = b.PathVDeg
	}
	if b.FaceToTargetDeg != nil {
		out.FaceToTargetDeg = b.FaceToTargetDeg
	}
	if b.LieDeg != nil {
		out.LieDeg = b.LieDeg
	}
	if b.LoftDeg != nil {
		out.LoftDeg = b.LoftDeg
	}
	return &out
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
