// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package settings persists user-tunable configuration (device
// preferences, simulator connection details, environmental conditions) as
// a versioned JSON document with forward-only schema migration.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CurrentVersion is the schema version this build writes. A file at an
// older version is migrated in memory on load; nothing is migrated on
// disk until the caller explicitly saves again.
const CurrentVersion = 2

// Mode selects whether validated shots are routed to the simulator over
// TCP or fed to the in-process physics engine.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeLocal  Mode = "local"
)

// Remote holds the simulator connection details.
type Remote struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	AutoConnect bool   `json:"auto_connect"`
}

// Device holds launch-monitor connection and validation preferences.
type Device struct {
	AutoConnect    bool `json:"auto_connect"`
	RejectZeroSpin bool `json:"reject_zero_spin"`
	UseMock        bool `json:"use_mock"`
}

// Conditions bundles the ambient inputs to the local physics engine. This
// is the open-range section's environment, not the settings document as a
// whole.
type Conditions struct {
	TemperatureF  float64 `json:"temp_f"`
	ElevationFt   float64 `json:"elevation_ft"`
	HumidityPct   float64 `json:"humidity_pct"`
	WindSpeedMPH  float64 `json:"wind_speed_mph"`
	WindDirDeg    float64 `json:"wind_dir_deg"`
}

// OpenRange describes the local-mode physics view: the ambient conditions
// fed to the engine, the landing surface, and a couple of UI display
// toggles that the core carries through unchanged.
type OpenRange struct {
	Conditions     Conditions `json:"conditions"`
	Surface        string     `json:"surface"`
	ShowTrajectory bool       `json:"show_trajectory"`
	CameraFollow   bool       `json:"camera_follow"`
}

// Settings is the current, in-memory schema. Every field here exists at
// CurrentVersion; migrateV1ToV2 is responsible for filling in fields that
// did not exist at v1. UI is deliberately untyped: its shape belongs to
// the UI layer, and the core only round-trips it.
type Settings struct {
	Version int  `json:"version"`
	Mode    Mode `json:"mode"`

	Remote Remote `json:"remote"`
	Device Device `json:"device"`

	UI json.RawMessage `json:"ui,omitempty"`

	OpenRange OpenRange `json:"open_range"`
}

// Default returns the factory settings, used whenever a settings file is
// missing or cannot be parsed.
func Default() Settings {
	return Settings{
		Version: CurrentVersion,
		Mode:    ModeRemote,
		Remote: Remote{
			Host:        "127.0.0.1",
			Port:        921,
			AutoConnect: false,
		},
		Device: Device{
			AutoConnect:    false,
			RejectZeroSpin: true,
			UseMock:        false,
		},
		OpenRange: OpenRange{
			Conditions: Conditions{
				TemperatureF: 70,
				ElevationFt:  0,
				HumidityPct:  50,
				WindSpeedMPH: 0,
				WindDirDeg:   0,
			},
			Surface:        "fairway",
			ShowTrajectory: true,
			CameraFollow:   true,
		},
	}
}

// LoadResult reports what Load actually did, so the composition root can
// decide whether to surface a diagnostic to the user.
type LoadResult struct {
	Settings  Settings
	Migrated  bool
	Recovered bool // true if the file existed but was malformed and defaults were substituted
}

// Load reads settings from path. A missing file is not an error: Default
// is returned with Recovered and Migrated both false. A malformed file is
// not fatal either: Default is returned with Recovered=true, and the
// caller should not call Save again until the user explicitly chooses to,
// per the recoverable-error-no-overwrite policy.
func Load(path string) (LoadResult, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return LoadResult{Settings: Default()}, nil
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("settings: read %s: %w", path, err)
	}

	var versioned struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &versioned); err != nil {
		return LoadResult{Settings: Default(), Recovered: true}, nil
	}

	switch versioned.Version {
	case CurrentVersion:
		var s Settings
		if err := json.Unmarshal(raw, &s); err != nil {
			return LoadResult{Settings: Default(), Recovered: true}, nil
		}
		return LoadResult{Settings: s}, nil
	case 1:
		var v1 settingsV1
		if err := json.Unmarshal(raw, &v1); err != nil {
			return LoadResult{Settings: Default(), Recovered: true}, nil
		}
		return LoadResult{Settings: migrateV1ToV2(v1), Migrated: true}, nil
	default:
		// An unknown version (newer than this build understands, or
		// corrupt) is treated the same as a malformed file: migration
		// is forward-only, never speculative.
		return LoadResult{Settings: Default(), Recovered: true}, nil
	}
}

// settingsV1 is the v1 schema, kept only so migrateV1ToV2 has something
// to read; it predates the nested remote/device/open_range sections and
// carried the simulator connection and environment fields flat.
type settingsV1 struct {
	Version int `json:"version"`

	SimulatorHost string `json:"simulator_host"`
	SimulatorPort int    `json:"simulator_port"`
	DeviceID      string `json:"device_id"`

	ElevationFeet    float64 `json:"elevation_feet"`
	TemperatureF     float64 `json:"temperature_f"`
	RelativeHumidity float64 `json:"relative_humidity"`

	WindSpeedMPH   float64 `json:"wind_speed_mph"`
	WindHeadingDeg float64 `json:"wind_heading_deg"`
}

func migrateV1ToV2(v1 settingsV1) Settings {
	s := Default()
	s.Version = CurrentVersion
	if v1.SimulatorHost != "" {
		s.Remote.Host = v1.SimulatorHost
	}
	if v1.SimulatorPort != 0 {
		s.Remote.Port = v1.SimulatorPort
	}
	s.OpenRange.Conditions.ElevationFt = v1.ElevationFeet
	s.OpenRange.Conditions.TemperatureF = v1.TemperatureF
	s.OpenRange.Conditions.HumidityPct = v1.RelativeHumidity
	s.OpenRange.Conditions.WindSpeedMPH = v1.WindSpeedMPH
	s.OpenRange.Conditions.WindDirDeg = v1.WindHeadingDeg
	// mode, device, surface, and the UI section did not exist in v1;
	// Default already populated them above.
	return s
}

// Validate clamps out-of-range fields to sane bounds rather than
// rejecting the whole document; a single bad reading from a weather
// station shouldn't make the settings file unusable.
func (s *Settings) Validate() {
	if s.Mode != ModeRemote && s.Mode != ModeLocal {
		s.Mode = Default().Mode
	}
	if s.Remote.Port <= 0 || s.Remote.Port > 65535 {
		s.Remote.Port = Default().Remote.Port
	}
	if s.Remote.Host == "" {
		s.Remote.Host = Default().Remote.Host
	}
	if s.OpenRange.Conditions.HumidityPct < 0 {
		s.OpenRange.Conditions.HumidityPct = 0
	}
	if s.OpenRange.Conditions.HumidityPct > 100 {
		s.OpenRange.Conditions.HumidityPct = 100
	}
	if s.OpenRange.Surface == "" {
		s.OpenRange.Surface = Default().OpenRange.Surface
	}
}

// Save writes s to path atomically: it is marshaled to a temp file in the
// same directory, then renamed over path, so a crash mid-write never
// leaves a truncated settings file behind.
func Save(path string, s Settings) error {
	s.Version = CurrentVersion
	s.Validate()

	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
	if err != nil {
		return fmt.Errorf("settings: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("settings: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("settings: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("settings: rename into place: %w", err)
	}
	return nil
}
