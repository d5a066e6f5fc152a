// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !usb

package usb

import (
	"context"
	"errors"
	"time"
)

// VendorID and ProductID identify the GC2 on the USB bus.
const (
	VendorID  = 0x2C79
	ProductID = 0x0110
)

// ReadTimeout bounds a single chunk read.
const ReadTimeout = 100 * time.Millisecond

// ErrUSBUnavailable is returned by Open when the module was built without
// the "usb" tag (no libusb development headers available on the host).
var ErrUSBUnavailable = errors.New("usb: built without libusb support, rebuild with -tags usb")

// Disconnected mirrors the real session's error type so callers can type
// switch on it regardless of build configuration.
type Disconnected struct{ Reason string }

func (e *Disconnected) Error() string { return "usb: disconnected: " + e.Reason }

// PermissionDenied mirrors the real session's error type.
type PermissionDenied struct{ Err error }

func (e *PermissionDenied) Error() string { return "usb: permission denied: " + e.Err.Error() }

// Session is an unusable placeholder when built without the "usb" tag.
type Session struct{}

// Open always fails in this build configuration.
func Open() (*Session, error) { return nil, ErrUSBUnavailable }

// Next always fails in this build configuration.
func (s *Session) Next(ctx context.Context) ([]byte, error) { return nil, ErrUSBUnavailable }

// Close is a no-op.
func (s *Session) Close() error { return nil }
