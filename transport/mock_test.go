// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package transport

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockSocketSendRecorded(t *testing.T) {
	s := NewMockSocket()
	require.NoError(t, s.Open(func(data []byte, addr netip.Addr, port uint16) {}))
	require.NoError(t, s.Bind(47193))
	require.Equal(t, uint16(47193), s.BoundPort)

	addr := netip.MustParseAddr("fd00::1")
	require.NoError(t, s.SendTo([]byte{0x02, 0x18}, addr, 10000, 0))

	d, ok := s.LastSent()
	require.True(t, ok)
	require.Equal(t, []byte{0x02, 0x18}, d.Data)
	require.Equal(t, addr, d.Addr)
	require.Equal(t, uint16(10000), d.Port)
}

func TestMockSocketInject(t *testing.T) {
	s := NewMockSocket()

	var got []byte
	var gotAddr netip.Addr
	var gotPort uint16
	require.NoError(t, s.Open(func(data []byte, addr netip.Addr, port uint16) {
		got = data
		gotAddr = addr
		gotPort = port
	}))

	addr := netip.MustParseAddr("fd00::1")
	s.Inject([]byte{0x02, 0x17}, addr, 10000)

	require.Equal(t, []byte{0x02, 0x17}, got)
	require.Equal(t, addr, gotAddr)
	require.Equal(t, uint16(10000), gotPort)
}

func TestMockSocketSendError(t *testing.T) {
	s := NewMockSocket()
	s.ErrorSend = ErrSocketClosed

	err := s.SendTo([]byte{0x02, 0x18}, netip.MustParseAddr("fd00::1"), 10000, 0)
	require.Equal(t, ErrSocketClosed, err)
	require.Empty(t, s.Sent)
}

func TestMockSocketCloseOnce(t *testing.T) {
	s := NewMockSocket()
	require.NoError(t, s.Close())
	require.True(t, s.Closed)
	require.Equal(t, ErrSocketClosed, s.Close())
}
