// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package openconnect implements the simulator's Open Connect wire
// protocol: JSON objects written back to back, with no newline between
// them, over a persistent TCP stream, with
// asymmetric response rules (Shot expects a response, Heartbeat and
// Status do not) and framing that requires a streaming decoder on the
// inbound side.
package openconnect

import "fmt"

// APIVersion is the protocol version advertised in every outbound message.
const APIVersion = "1"

// Units is always "Yards" per the wire protocol.
const Units = "Yards"

// BallData is the required payload of a Shot message.
type BallData struct {
	Speed     float64 `json:"Speed"`
	SpinAxis  float64 `json:"SpinAxis"`
	TotalSpin float64 `json:"TotalSpin"`
	BackSpin  float64 `json:"BackSpin"`
	SideSpin  float64 `json:"SideSpin"`
	HLA       float64 `json:"HLA"`
	VLA       float64 `json:"VLA"`
}

// ClubData is the optional club-data payload, present only when the GC2
// reported HMT data for the shot.
type ClubData struct {
	Speed                float64 `json:"Speed"`
	AngleOfAttack        float64 `json:"AngleOfAttack"`
	FaceToTarget         float64 `json:"FaceToTarget"`
	Lie                  float64 `json:"Lie"`
	Loft                 float64 `json:"Loft"`
	Path                 float64 `json:"Path"`
	SpeedAtImpact        float64 `json:"SpeedAtImpact"`
	VerticalFaceImpact   float64 `json:"VerticalFaceImpact"`
	HorizontalFaceImpact float64 `json:"HorizontalFaceImpact"`
	ClosureRate          float64 `json:"ClosureRate"`
}

// ShotDataOptions tags which parts of an outbound message are meaningful
// and distinguishes the three message kinds the wire protocol carries.
type ShotDataOptions struct {
	ContainsBallData          bool `json:"ContainsBallData"`
	ContainsClubData          bool `json:"ContainsClubData"`
	LaunchMonitorIsReady      bool `json:"LaunchMonitorIsReady"`
	LaunchMonitorBallDetected bool `json:"LaunchMonitorBallDetected"`
	IsHeartBeat               bool `json:"IsHeartBeat"`
}

// OutboundMessage is the single JSON object written for every outbound
// send: a Shot, a Heartbeat, or a Status update.
type OutboundMessage struct {
	DeviceID        string          `json:"DeviceID"`
	Units           string          `json:"Units"`
	ShotNumber      int             `json:"ShotNumber"`
	APIversion      string          `json:"APIversion"`
	BallData        *BallData       `json:"BallData,omitempty"`
	ClubData        *ClubData       `json:"ClubData,omitempty"`
	ShotDataOptions ShotDataOptions `json:"ShotDataOptions"`
}

// InboundResponse is what the simulator replies with after a Shot
// message; Heartbeat and Status never receive one.
type InboundResponse struct {
	Code    int     `json:"Code"`
	Message string  `json:"Message"`
	Player  *string `json:"Player,omitempty"`
}

// Success reports whether Code is a 2xx.
func (r InboundResponse) Success() bool { return r.Code >= 200 && r.Code < 300 }

// SimulatorError is surfaced when the simulator replies with a non-2xx
// code. The connection is not dropped for this; it is not a transport
// failure.
type SimulatorError struct {
	Code    int
	Message string
}

func (e *SimulatorError) Error() string {
	return fmt.Sprintf("openconnect: simulator error %d: %s", e.Code, e.Message)
}

// ProtocolError wraps a decode failure on the inbound stream. The
// response is dropped; the connection is kept, per spec §7.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string { return "openconnect: protocol error: " + e.Err.Error() }
func (e *ProtocolError) Unwrap() error { return e.Err }

// IOError wraps a transport-level failure. Any I/O error while CONNECTED
// transitions the client to DISCONNECTED, which is reported through the
// client's onState callback; the client does not reconnect by itself.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "openconnect: io error: " + e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

func newBallData(speed, spinAxis, totalSpin, backSpin, sideSpin, hla, vla float64) *BallData {
	return &BallData{
		Speed:     speed,
		SpinAxis:  spinAxis,
		TotalSpin: totalSpin,
		BackSpin:  backSpin,
		SideSpin:  sideSpin,
		HLA:       hla,
		VLA:       vla,
	}
}
