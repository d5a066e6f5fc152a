// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// ShotFrame is a parsed "0H" message.
//
// Every numeric field is a pointer so that absence (the device omitted the
// key, or the value didn't parse) is distinguishable from a legitimate
// zero. Club-data fields are parsed whenever their keys appear, whether or
// not HasHMT is set.
type ShotFrame struct {
	ShotID           *int
	MsecSinceContact *int
	BallSpeedMPH     *float64
	VLADeg           *float64
	HLADeg           *float64
	TotalSpinRPM     *float64
	BackSpinRPM      *float64
	SideSpinRPM      *float64

	ClubSpeedMPH    *float64
	PathHDeg        *float64
	PathVDeg        *float64
	FaceToTargetDeg *float64
	LieDeg          *float64
	LoftDeg         *float64
	HasHMT          bool
}

// StatusFrame is a parsed "0M" message.
type StatusFrame struct {
	Flags uint
	Balls int
}

// Ready reports whether the device's status flags indicate it is ready to
// fire, per spec: flags == 7.
func (s *StatusFrame) Ready() bool { return s.Flags == 7 }

// BallDetected reports whether a ball is currently detected.
func (s *StatusFrame) BallDetected() bool { return s.Balls > 0 }

var shotIntFields = map[string]func(*ShotFrame, int){
	"SHOT_ID":            func(f *ShotFrame, v int) { f.ShotID = &v },
	"MSEC_SINCE_CONTACT": func(f *ShotFrame, v int) { f.MsecSinceContact = &v },
	"HMT":                func(f *ShotFrame, v int) { f.HasHMT = v == 1 },
}

var shotFloatFields = map[string]func(*ShotFrame, float64){
	"SPEED_MPH":           func(f *ShotFrame, v float64) { f.BallSpeedMPH = &v },
	"ELEVATION_DEG":       func(f *ShotFrame, v float64) { f.VLADeg = &v },
	"AZIMUTH_DEG":         func(f *ShotFrame, v float64) { f.HLADeg = &v },
	"SPIN_RPM":            func(f *ShotFrame, v float64) { f.TotalSpinRPM = &v },
	"BACK_RPM":            func(f *ShotFrame, v float64) { f.BackSpinRPM = &v },
	"SIDE_RPM":            func(f *ShotFrame, v float64) { f.SideSpinRPM = &v },
	"CLUB_SPEED_MPH":      func(f *ShotFrame, v float64) { f.ClubSpeedMPH = &v },
	"PATH_H_DEG":          func(f *ShotFrame, v float64) { f.PathHDeg = &v },
	"PATH_V_DEG":          func(f *ShotFrame, v float64) { f.PathVDeg = &v },
	"FACE_TO_TARGET_DEG":  func(f *ShotFrame, v float64) { f.FaceToTargetDeg = &v },
	"LIE_DEG":             func(f *ShotFrame, v float64) { f.LieDeg = &v },
	"LOFT_DEG":            func(f *ShotFrame, v float64) { f.LoftDeg = &v },
}

var statusIntFields = map[string]func(*StatusFrame, int){
	"FLAGS": func(s *StatusFrame, v int) { s.Flags = uint(v) },
	"BALLS": func(s *StatusFrame, v int) { s.Balls = v },
}

// ParseMessage turns a reassembled Message into a *ShotFrame or
// *StatusFrame. The returned value's dynamic type is one of those two;
// callers type-switch on it.
func ParseMessage(msg Message) (interface{}, error) {
	switch msg.Tag {
	case TagShot:
		f := &ShotFrame{}
		for _, line := range msg.Lines {
			key, val, ok := splitKV(line)
			if !ok {
				continue
			}
			if set, ok := shotIntFields[key]; ok {
				if n, err := strconv.Atoi(val); err == nil {
					set(f, n)
				}
				continue
			}
			if set, ok := shotFloatFields[key]; ok {
				if n, err := strconv.ParseFloat(val, 64); err == nil {
					set(f, n)
				}
				continue
			}
			// Unknown key: dropped silently.
		}
		return f, nil
	case TagStatus:
		s := &StatusFrame{}
		for _, line := range msg.Lines {
			key, val, ok := splitKV(line)
			if !ok {
				continue
			}
			if set, ok := statusIntFields[key]; ok {
				if n, err := strconv.Atoi(val); err == nil {
					set(s, n)
				}
			}
		}
		return s, nil
	default:
		return nil, fmt.Errorf("protocol: unrecognized message tag %q", msg.Tag)
	}
}

// splitKV trims ASCII whitespace and splits a "KEY=VALUE" line. Lines
// without "=" are ignored, per spec.
func splitKV(line string) (key, val string, ok bool) {
	line = strings.TrimSpace(line)
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	val = strings.TrimSpace(line[i+1:])
	return key, val, true
}
