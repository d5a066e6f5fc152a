// Copyright 2024 The GC2 Connect Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package openconnect

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// OpDeadline bounds every individual read or write.
const OpDeadline = 5 * time.Second

// HeartbeatInterval is how often a Heartbeat is dispatched while idle.
const HeartbeatInterval = time.Second

// State is the TCP client's connection lifecycle.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateDisconnecting:
		return "DISCONNECTING"
	default:
		return "UNKNOWN"
	}
}

// Client drives one persistent connection to the simulator's Open Connect
// listener. It is owned by exactly one task; the mutex below only
// protects the write path from racing the idle heartbeat loop against an
// explicit Send call, not against concurrent ownership.
type Client struct {
	DeviceID string

	mu         sync.Mutex
	conn       net.Conn
	r          *bufio.Reader
	dec        *json.Decoder
	state      State
	shotNumber int
	lastSend   time.Time

	onState func(State)
}

// NewClient returns an unconnected Client. deviceID is echoed in every
// outbound message's DeviceID field.
func NewClient(deviceID string, onState func(State)) *Client {
	if onState == nil {
		onState = func(State) {}
	}
	return &Client{DeviceID: deviceID, state: StateDisconnected, onState: onState, shotNumber: 0}
}

// State returns the client's current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) setState(s State) {
	c.state = s
	c.onState(s)
}

// Dial opens a TCP connection to host:port with TCP_NODELAY enabled.
func Dial(ctx context.Context, host string, port int, deviceID string, onState func(State)) (*Client, error) {
	c := NewClient(deviceID, onState)
	if err := c.connect(ctx, host, port); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect(ctx context.Context, host string, port int) error {
	c.mu.Lock()
	c.setState(StateConnecting)
	c.mu.Unlock()

	d := net.Dialer{}
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		c.mu.Lock()
		c.setState(StateDisconnected)
		c.mu.Unlock()
		return &IOError{Err: err}
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	c.mu.Lock()
	c.conn = conn
	c.r = bufio.NewReader(conn)
	c.dec = json.NewDecoder(c.r)
	c.setState(StateConnected)
	c.mu.Unlock()
	return nil
}

// Close gracefully tears down the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDisconnected || c.conn == nil {
		return nil
	}
	c.setState(StateDisconnecting)
	err := c.conn.Close()
	c.conn = nil
	c.setState(StateDisconnected)
	return err
}

// ShotPayload is the subset of a ValidatedShot the TCP client needs to
// build an outbound Shot message; it is declared here rather than
// importing the shot package, so that openconnect has no dependency on
// shot's richer internal state.
type ShotPayload struct {
	BallSpeedMPH float64
	SpinAxisDeg  float64
	TotalSpinRPM float64
	BackSpinRPM  float64
	SideSpinRPM  float64
	HLADeg       float64
	VLADeg       float64

	HasClubData     bool
	ClubSpeedMPH    float64
	PathVDeg        float64
	FaceToTargetDeg float64
	LieDeg          float64
	LoftDeg         float64
	PathHDeg        float64
}

// SendShot drains any buffered inbound bytes, writes a Shot message, and
// waits up to OpDeadline for exactly one decoded response object. The
// client's own ShotNumber counter is independent of the router's
// shot_number.
func (c *Client) SendShot(ctx context.Context, p ShotPayload) (InboundResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		return InboundResponse{}, &IOError{Err: fmt.Errorf("not connected (state=%s)", c.state)}
	}
	c.drainLocked()

	c.shotNumber++
	msg := OutboundMessage{
		DeviceID:   c.DeviceID,
		Units:      Units,
		ShotNumber: c.shotNumber,
		APIversion: APIVersion,
		BallData:   newBallData(p.BallSpeedMPH, p.SpinAxisDeg, p.TotalSpinRPM, p.BackSpinRPM, p.SideSpinRPM, p.HLADeg, p.VLADeg),
		ShotDataOptions: ShotDataOptions{
			ContainsBallData: true,
			ContainsClubData: p.HasClubData,
		},
	}
	if p.HasClubData {
		msg.ClubData = &ClubData{
			Speed:        p.ClubSpeedMPH,
			FaceToTarget: p.FaceToTargetDeg,
			Lie:          p.LieDeg,
			Loft:         p.LoftDeg,
			Path:         p.PathHDeg,
		}
	}

	if err := c.writeLocked(ctx, msg); err != nil {
		return InboundResponse{}, err
	}

	_ = c.conn.SetReadDeadline(time.Now().Add(OpDeadline))
	var resp InboundResponse
	if err := c.dec.Decode(&resp); err != nil {
		if err == io.EOF || isTimeout(err) {
			c.setState(StateDisconnected)
			return InboundResponse{}, &IOError{Err: err}
		}
		return InboundResponse{}, &ProtocolError{Err: err}
	}
	if !resp.Success() {
		return resp, &SimulatorError{Code: resp.Code, Message: resp.Message}
	}
	return resp, nil
}

// SendHeartbeat writes a Heartbeat message. No response is expected.
func (c *Client) SendHeartbeat(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		return &IOError{Err: fmt.Errorf("not connected (state=%s)", c.state)}
	}
	msg := OutboundMessage{
		DeviceID:   c.DeviceID,
		Units:      Units,
		ShotNumber: c.shotNumber,
		APIversion: APIVersion,
		ShotDataOptions: ShotDataOptions{
			IsHeartBeat: true,
		},
	}
	return c.writeLocked(ctx, msg)
}

// SendStatus writes a Status message reflecting device readiness and ball
// detection. No response is expected.
func (c *Client) SendStatus(ctx context.Context, ready, ballDetected bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		return &IOError{Err: fmt.Errorf("not connected (state=%s)", c.state)}
	}
	msg := OutboundMessage{
		DeviceID:   c.DeviceID,
		Units:      Units,
		ShotNumber: c.shotNumber,
		APIversion: APIVersion,
		ShotDataOptions: ShotDataOptions{
			LaunchMonitorIsReady:      ready,
			LaunchMonitorBallDetected: ballDetected,
		},
	}
	return c.writeLocked(ctx, msg)
}

// IdleSince reports how long it has been since the last outbound message,
// used by the composition root to decide whether a heartbeat tick should
// actually fire.
func (c *Client) IdleSince() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lastSend.IsZero() {
		return HeartbeatInterval
	}
	return time.Since(c.lastSend)
}

// writeLocked marshals and writes msg in a single Write call, with no
// trailing newline, per the wire protocol's framing. Caller holds c.mu.
func (c *Client) writeLocked(ctx context.Context, msg OutboundMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("openconnect: marshal: %w", err)
	}
	deadline := time.Now().Add(OpDeadline)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if _, err := c.conn.Write(b); err != nil {
		c.setState(StateDisconnected)
		return &IOError{Err: err}
	}
	c.lastSend = time.Now()
	return nil
}

// drainLocked discards any inbound JSON objects that have already arrived,
// whether held in the buffered reader or still in the socket, waiting at
// most about a millisecond for further bytes. This is the single
// drain-then-send discipline mandated by spec §4.6, in place of the
// "opportunistic" draining the original client occasionally skipped.
func (c *Client) drainLocked() {
	_ = c.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	for {
		if c.r.Buffered() == 0 {
			if _, err := c.r.Peek(1); err != nil {
				return
			}
		}
		var discard json.RawMessage
		if err := c.dec.Decode(&discard); err != nil {
			return
		}
	}
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	t, ok := err.(timeout)
	return ok && t.Timeout()
}
