// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package transport

import (
	"fmt"
	"net"
	"net/netip"
	"sync"
	"sync/atomic"

	"log/slog"

	"golang.org/x/net/ipv6"
)

// maxDatagramSize is the largest datagram the receive loop will read.
// MQTT-SN frames never exceed 255 octets but a mesh border router may pad.
const maxDatagramSize = 1024

// UDP is a datagram socket for exchanging MQTT-SN frames over UDP,
// typically on an IPv6/6LoWPAN mesh interface.
type UDP struct {
	mu   sync.Mutex
	conn *net.UDPConn
	pc   *ipv6.PacketConn // for per-datagram hop limit control
	rx   ReceiveFn        // receive callback delivering inbound datagrams
	log  *slog.Logger     // client logger
	end  uint32           // ensure the close methods are only called once
}

// NewUDP initialises and returns a new UDP socket.
func NewUDP() *UDP {
	return &UDP{
		log: slog.Default(),
	}
}

// Init initializes the socket.
func (s *UDP) Init(log *slog.Logger) error {
	s.log = log
	return nil
}

// Open registers the receive callback for inbound datagrams.
func (s *UDP) Open(rx ReceiveFn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rx = rx
	return nil
}

// Bind binds the socket to a local UDP port and starts the receive loop.
func (s *UDP) Bind(port uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rx == nil {
		return ErrNotBound
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(port)})
	if err != nil {
		return fmt.Errorf("failed binding udp socket: %w", err)
	}

	s.conn = conn
	s.pc = ipv6.NewPacketConn(conn)
	go s.serve()

	return nil
}

// serve reads datagrams from the connection and delivers them to the
// receive callback until the socket is closed.
func (s *UDP) serve() {
	buf := make([]byte, maxDatagramSize)
	for {
		if atomic.LoadUint32(&s.end) == 1 {
			return
		}

		n, addr, err := s.conn.ReadFromUDPAddrPort(buf)
		if err != nil {
			if atomic.LoadUint32(&s.end) == 0 {
				s.log.Debug("udp read failed", "error", err)
			}
			return
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		s.rx(data, addr.Addr().Unmap(), addr.Port())
	}
}

// LocalAddrPort returns the local address the socket is bound to, which
// carries the kernel-assigned port when Bind was called with port zero.
func (s *UDP) LocalAddrPort() netip.AddrPort {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return netip.AddrPort{}
	}

	return s.conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// SendTo transmits a single datagram. A non-zero hop limit is applied to
// the individual send, bounding the radius of a multicast SEARCHGW.
func (s *UDP) SendTo(data []byte, addr netip.Addr, port uint16, hopLimit uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || atomic.LoadUint32(&s.end) == 1 {
		return ErrSocketClosed
	}

	dst := net.UDPAddrFromAddrPort(netip.AddrPortFrom(addr, port))

	if hopLimit > 0 && addr.Is6() {
		cm := &ipv6.ControlMessage{HopLimit: int(hopLimit)}
		if addr.IsMulticast() {
			if err := s.pc.SetMulticastHopLimit(int(hopLimit)); err != nil {
				return fmt.Errorf("failed setting hop limit: %w", err)
			}
		}
		_, err := s.pc.WriteTo(data, cm, dst)
		return err
	}

	_, err := s.conn.WriteToUDP(data, dst)
	return err
}

// Close closes the socket and stops the receive loop.
func (s *UDP) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !atomic.CompareAndSwapUint32(&s.end, 0, 1) {
		return ErrSocketClosed
	}

	if s.conn != nil {
		return s.conn.Close()
	}

	return nil
}
