// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

// Package transport provides datagram socket implementations for carrying
// MQTT-SN frames between a client and its gateway.
package transport

import (
	"errors"
	"net/netip"

	"log/slog"
)

var (
	ErrSocketClosed = errors.New("socket not open")
	ErrNotBound     = errors.New("socket not bound")
)

// ReceiveFn is a callback invoked for each datagram received on a socket,
// with the sender's address and port.
type ReceiveFn func(data []byte, addr netip.Addr, port uint16)

// Socket is an interface for a datagram socket which can carry MQTT-SN
// frames. Implementations deliver inbound datagrams through the receive
// callback registered with Open.
type Socket interface {

	// Init provides the socket with a logger before it is opened.
	Init(log *slog.Logger) error

	// Open registers the receive callback. It must be called before Bind.
	Open(rx ReceiveFn) error

	// Bind binds the socket to a local port and begins delivering
	// inbound datagrams to the receive callback.
	Bind(port uint16) error

	// SendTo transmits a single datagram to the given address and port.
	// A non-zero hop limit bounds the radius of multicast sends.
	SendTo(data []byte, addr netip.Addr, port uint16, hopLimit uint8) error

	// Close closes the socket and stops the receive loop.
	Close() error
}
