// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build usb

// Package usb opens and pumps bytes from a Foresight GC2 launch monitor
// attached over USB.
//
// It is gated behind the "usb" build tag, following the pattern of
// periph's experimental/host/usbbus: a machine without libusb's
// development headers installed can still build and run the rest of the
// module against the "usbstub" fallback in session_stub.go.
package usb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
)

// VendorID and ProductID identify the GC2 on the USB bus.
const (
	VendorID  = 0x2C79
	ProductID = 0x0110
)

// ReadTimeout bounds a single chunk read.
const ReadTimeout = 100 * time.Millisecond

// maxConsecutiveErrors is the small threshold of repeated I/O errors that
// elevates to a disconnection, per spec §4.4.
const maxConsecutiveErrors = 5

// zeroReadWindow is how long a sentinel zero-byte read must persist before
// it is treated as a disconnection rather than an idle device.
const zeroReadWindow = time.Second

// Disconnected is returned by Next when the device has gone away. The
// session must be closed and reopened; the reconnect supervisor drives
// that from here.
type Disconnected struct {
	Reason string
}

func (e *Disconnected) Error() string { return "usb: disconnected: " + e.Reason }

// PermissionDenied is fatal for the session: it requires a user action
// (udev rule, sudo, group membership) and is never retried automatically.
type PermissionDenied struct {
	Err error
}

func (e *PermissionDenied) Error() string { return "usb: permission denied: " + e.Err.Error() }

// Session owns one open handle to the GC2.
type Session struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	done func()
	ep   *gousb.InEndpoint

	consecutiveErrors int
	zeroSince         time.Time
}

// Open claims the GC2's interrupt/bulk IN endpoint. The caller owns the
// returned Session exclusively; Open never retries, that is the
// reconnect supervisor's job (see the reconnect package).
func Open() (*Session, error) {
	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(VendorID), gousb.ID(ProductID))
	if err != nil {
		ctx.Close()
		if errors.Is(err, gousb.ErrorAccess) {
			return nil, &PermissionDenied{Err: err}
		}
		return nil, fmt.Errorf("usb: open: %w", err)
	}
	if dev == nil {
		ctx.Close()
		return nil, &Disconnected{Reason: "device not found"}
	}
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usb: set auto detach: %w", err)
	}
	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usb: claim config: %w", err)
	}
	intf, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usb: claim interface: %w", err)
	}
	ep, err := intf.InEndpoint(1)
	if err != nil {
		intf.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, fmt.Errorf("usb: open in endpoint: %w", err)
	}
	done := func() {
		intf.Close()
		cfg.Close()
	}
	return &Session{ctx: ctx, dev: dev, done: done, ep: ep}, nil
}

// Next reads one chunk with the read timeout. A nil chunk and nil error
// means a benign timeout: the caller should simply read again. A non-nil
// error is always a *Disconnected; spurious single timeouts never count
// as a disconnection on their own.
func (s *Session) Next(ctx context.Context) ([]byte, error) {
	buf := make([]byte, s.ep.Desc.MaxPacketSize)
	readCtx, cancel := context.WithTimeout(ctx, ReadTimeout)
	defer cancel()
	n, err := s.ep.ReadContext(readCtx, buf)
	if err != nil {
		if readCtx.Err() != nil && ctx.Err() == nil {
			// Read timeout, not a caller cancellation: a spurious timeout
			// does not count as a disconnection by itself.
			s.consecutiveErrors = 0
			return nil, nil
		}
		if errors.Is(err, gousb.ErrorNoDevice) {
			return nil, &Disconnected{Reason: "device removed"}
		}
		s.consecutiveErrors++
		if s.consecutiveErrors >= maxConsecutiveErrors {
			return nil, &Disconnected{Reason: "repeated I/O errors"}
		}
		return nil, nil
	}
	s.consecutiveErrors = 0
	if n == 0 {
		if s.zeroSince.IsZero() {
			s.zeroSince = time.Now()
		} else if time.Since(s.zeroSince) >= zeroReadWindow {
			return nil, &Disconnected{Reason: "persistent zero-length reads"}
		}
		return nil, nil
	}
	s.zeroSince = time.Time{}
	return buf[:n], nil
}

// Close releases the device handle. It is always safe to call once.
func (s *Session) Close() error {
	if s.done != nil {
		s.done()
	}
	err := s.dev.Close()
	s.ctx.Close()
	return err
}
