// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package transport

import (
	"net/netip"
	"sync"

	"log/slog"
)

// MockDatagram records a single datagram written through a MockSocket.
type MockDatagram struct {
	Data     []byte
	Addr     netip.Addr
	Port     uint16
	HopLimit uint8
}

// MockSocket is a mock socket implementation for testing, recording sends
// and allowing datagrams to be injected as if received from the network.
type MockSocket struct {
	sync.Mutex
	rx        ReceiveFn
	Sent      []MockDatagram // all datagrams written through the socket
	BoundPort uint16         // the port passed to Bind
	Opened    bool           // indicate the receive callback is registered
	Closed    bool           // indicate the socket has been closed
	ErrorSend error          // error to return from SendTo
	ErrorBind error          // error to return from Bind
}

// NewMockSocket returns a new instance of MockSocket.
func NewMockSocket() *MockSocket {
	return &MockSocket{}
}

// Init initializes the mock socket.
func (s *MockSocket) Init(log *slog.Logger) error {
	return nil
}

// Open registers the receive callback.
func (s *MockSocket) Open(rx ReceiveFn) error {
	s.Lock()
	defer s.Unlock()

	s.rx = rx
	s.Opened = true
	return nil
}

// Bind records the bound port.
func (s *MockSocket) Bind(port uint16) error {
	s.Lock()
	defer s.Unlock()

	if s.ErrorBind != nil {
		return s.ErrorBind
	}

	s.BoundPort = port
	return nil
}

// SendTo records an outgoing datagram.
func (s *MockSocket) SendTo(data []byte, addr netip.Addr, port uint16, hopLimit uint8) error {
	s.Lock()
	defer s.Unlock()

	if s.ErrorSend != nil {
		return s.ErrorSend
	}

	d := MockDatagram{
		Data:     make([]byte, len(data)),
		Addr:     addr,
		Port:     port,
		HopLimit: hopLimit,
	}
	copy(d.Data, data)
	s.Sent = append(s.Sent, d)
	return nil
}

// Close marks the socket as closed.
func (s *MockSocket) Close() error {
	s.Lock()
	defer s.Unlock()

	if s.Closed {
		return ErrSocketClosed
	}

	s.Closed = true
	return nil
}

// Inject delivers a datagram to the receive callback as if it had arrived
// from the network.
func (s *MockSocket) Inject(data []byte, addr netip.Addr, port uint16) {
	s.Lock()
	rx := s.rx
	s.Unlock()

	if rx != nil {
		rx(data, addr, port)
	}
}

// LastSent returns the most recently sent datagram, if any.
func (s *MockSocket) LastSent() (MockDatagram, bool) {
	s.Lock()
	defer s.Unlock()

	if len(s.Sent) == 0 {
		return MockDatagram{}, false
	}

	return s.Sent[len(s.Sent)-1], true
}
