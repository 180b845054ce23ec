// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package mqttsn

import (
	"bytes"
	"io"
	"net/netip"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/require"

	"github.com/fogline/mqttsn/packets"
	"github.com/fogline/mqttsn/transport"
)

var (
	gwAddr    = netip.MustParseAddr("fd00::1")
	otherAddr = netip.MustParseAddr("fd00::2")
)

const gwPort uint16 = 10000

// testClock is a manually advanced millisecond source.
type testClock struct {
	now uint32
}

func (c *testClock) Now() uint32 {
	return c.now
}

func (c *testClock) advance(ms uint32) {
	c.now += ms
}

func newTestClient(t *testing.T) (*Client, *transport.MockSocket, *testClock) {
	t.Helper()

	sock := transport.NewMockSocket()
	clk := &testClock{now: 1000}
	cl := New(&Options{
		Socket: sock,
		Clock:  clk,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	require.NoError(t, cl.Start(47193))
	require.True(t, sock.Opened)
	require.Equal(t, uint16(47193), sock.BoundPort)

	return cl, sock, clk
}

func testConfig() Config {
	return Config{
		GatewayAddress: gwAddr,
		GatewayPort:    gwPort,
		ClientID:       "c1",
		KeepAlive:      60,
		GatewayTimeout: 10,
	}
}

func encodeFrame(t *testing.T, pk packets.Packet) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, pk.Encode(buf))
	return buf.Bytes()
}

// injectFromGateway delivers a packet as if sent by the configured gateway.
func injectFromGateway(t *testing.T, sock *transport.MockSocket, pk packets.Packet) {
	t.Helper()
	sock.Inject(encodeFrame(t, pk), gwAddr, gwPort)
}

// activateSession drives the client through the connect handshake.
func activateSession(t *testing.T, cl *Client, sock *transport.MockSocket) {
	t.Helper()
	require.NoError(t, cl.Connect(testConfig()))
	injectFromGateway(t, sock, &packets.ConnackPacket{ReturnCode: packets.Accepted})
	require.Equal(t, StateActive, cl.State())
}

// sentPacket decodes the i-th frame written through the socket.
func sentPacket(t *testing.T, sock *transport.MockSocket, i int) packets.Packet {
	t.Helper()
	require.Greater(t, len(sock.Sent), i)
	pk, err := packets.ReadPacket(sock.Sent[i].Data)
	require.NoError(t, err)
	return pk
}

func TestConnectHappyPath(t *testing.T) {
	cl, sock, clk := newTestClient(t)

	var codes []byte
	cl.SetConnectedCallback(func(code byte) {
		codes = append(codes, code)
	})

	require.NoError(t, cl.Connect(testConfig()))

	d, ok := sock.LastSent()
	require.True(t, ok)
	require.Equal(t, gwAddr, d.Addr)
	require.Equal(t, gwPort, d.Port)

	ct, ok := sentPacket(t, sock, 0).(*packets.ConnectPacket)
	require.True(t, ok)
	require.Equal(t, "c1", ct.ClientID)
	require.Equal(t, uint16(60), ct.Duration)

	// Liveness window is armed until the CONNACK arrives.
	require.Equal(t, uint32(1000+10000), cl.gwTimeout)

	injectFromGateway(t, sock, &packets.ConnackPacket{ReturnCode: packets.Accepted})

	require.Equal(t, StateActive, cl.State())
	require.Equal(t, []byte{packets.Accepted}, codes)
	require.Equal(t, uint32(0), cl.gwTimeout)
	require.Equal(t, clk.now+55000, cl.pingReqTime)
}

func TestConnectWhileActive(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	sends := len(sock.Sent)
	require.Equal(t, ErrInvalidState, cl.Connect(testConfig()))
	require.Len(t, sock.Sent, sends)
}

func TestSubscribeTimeout(t *testing.T) {
	cl, sock, clk := newTestClient(t)
	activateSession(t, cl, sock)

	var fired int
	var gotCode byte
	var gotTopic TopicID
	require.NoError(t, cl.Subscribe("sensors/temp", Qos0, func(code byte, topicID TopicID) {
		fired++
		gotCode, gotTopic = code, topicID
	}))

	sub, ok := sentPacket(t, sock, 1).(*packets.SubscribePacket)
	require.True(t, ok)
	require.Equal(t, uint16(1), sub.PacketID)
	require.Equal(t, "sensors/temp", sub.TopicName)
	require.Equal(t, 1, cl.subscribeQueue.len())

	clk.advance(10000)
	require.NoError(t, cl.Process())

	require.Equal(t, 1, fired)
	require.Equal(t, packets.Timeout, gotCode)
	require.Equal(t, TopicID(0), gotTopic)
	require.Equal(t, 0, cl.subscribeQueue.len())
}

func TestStaleSubackIgnored(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var fired int
	require.NoError(t, cl.Subscribe("sensors/temp", Qos0, func(code byte, topicID TopicID) {
		fired++
	}))

	injectFromGateway(t, sock, &packets.SubackPacket{PacketID: 42, TopicID: 7, ReturnCode: packets.Accepted})

	require.Equal(t, 0, fired)
	require.Equal(t, 1, cl.subscribeQueue.len())
	require.NotNil(t, cl.subscribeQueue.find(1))
}

func TestSubscribeCorrelation(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var fired int
	var gotCode byte
	var gotTopic TopicID
	require.NoError(t, cl.Subscribe("sensors/temp", Qos0, func(code byte, topicID TopicID) {
		fired++
		gotCode, gotTopic = code, topicID
	}))

	injectFromGateway(t, sock, &packets.SubackPacket{PacketID: 1, TopicID: 7, ReturnCode: packets.Accepted})
	require.Equal(t, 1, fired)
	require.Equal(t, packets.Accepted, gotCode)
	require.Equal(t, TopicID(7), gotTopic)
	require.Equal(t, 0, cl.subscribeQueue.len())

	// A duplicate SUBACK finds nothing and fires nothing.
	injectFromGateway(t, sock, &packets.SubackPacket{PacketID: 1, TopicID: 7, ReturnCode: packets.Accepted})
	require.Equal(t, 1, fired)
}

func TestGatewayLivenessLost(t *testing.T) {
	cl, sock, clk := newTestClient(t)
	activateSession(t, cl, sock)

	var reasons []DisconnectReason
	cl.SetDisconnectedCallback(func(reason DisconnectReason) {
		reasons = append(reasons, reason)
	})

	clk.advance(55000)
	require.NoError(t, cl.Process())

	// The keep-alive ping went out and the liveness window opened.
	_, ok := sentPacket(t, sock, 1).(*packets.PingreqPacket)
	require.True(t, ok)
	require.Equal(t, clk.now+10000, cl.gwTimeout)
	require.Empty(t, reasons)

	clk.advance(10000)
	require.NoError(t, cl.Process())

	require.Equal(t, StateLost, cl.State())
	require.Equal(t, []DisconnectReason{DisconnectTimeout}, reasons)
}

func TestPingrespClearsLiveness(t *testing.T) {
	cl, sock, clk := newTestClient(t)
	activateSession(t, cl, sock)

	clk.advance(55000)
	require.NoError(t, cl.Process())
	require.NotZero(t, cl.gwTimeout)

	injectFromGateway(t, sock, &packets.PingrespPacket{})
	require.Equal(t, uint32(0), cl.gwTimeout)
	require.Equal(t, StateActive, cl.State())
}

func TestSleepRoundTrip(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var reasons []DisconnectReason
	cl.SetDisconnectedCallback(func(reason DisconnectReason) {
		reasons = append(reasons, reason)
	})

	require.NoError(t, cl.Sleep(300))

	dc, ok := sentPacket(t, sock, 1).(*packets.DisconnectPacket)
	require.True(t, ok)
	require.Equal(t, uint16(300), dc.Duration)

	injectFromGateway(t, sock, &packets.DisconnectPacket{})

	require.Equal(t, StateAsleep, cl.State())
	require.Equal(t, []DisconnectReason{DisconnectAsleep}, reasons)
}

func TestAsleepWake(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)
	require.NoError(t, cl.Sleep(300))
	injectFromGateway(t, sock, &packets.DisconnectPacket{})
	require.Equal(t, StateAsleep, cl.State())

	var reasons []DisconnectReason
	cl.SetDisconnectedCallback(func(reason DisconnectReason) {
		reasons = append(reasons, reason)
	})

	require.NoError(t, cl.Awake(5))
	require.Equal(t, StateAwake, cl.State())

	_, ok := sentPacket(t, sock, len(sock.Sent)-1).(*packets.PingreqPacket)
	require.True(t, ok)

	// Buffered messages arrive while awake, then the PINGRESP ends the cycle.
	var payloads [][]byte
	cl.SetPublishReceivedCallback(func(payload []byte, qos QoS, topicID TopicID) {
		payloads = append(payloads, payload)
	})
	injectFromGateway(t, sock, &packets.PublishPacket{TopicID: 7, PacketID: 9, Payload: []byte("21.5")})
	require.Equal(t, [][]byte{[]byte("21.5")}, payloads)

	injectFromGateway(t, sock, &packets.PingrespPacket{})
	require.Equal(t, StateAsleep, cl.State())
	require.Equal(t, []DisconnectReason{DisconnectAsleep}, reasons)
}

func TestDisconnectRequested(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var reasons []DisconnectReason
	cl.SetDisconnectedCallback(func(reason DisconnectReason) {
		reasons = append(reasons, reason)
	})

	require.NoError(t, cl.Disconnect())
	injectFromGateway(t, sock, &packets.DisconnectPacket{})

	require.Equal(t, StateDisconnected, cl.State())
	require.Equal(t, []DisconnectReason{DisconnectServer}, reasons)
}

func TestUnsolicitedDisconnect(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var reasons []DisconnectReason
	cl.SetDisconnectedCallback(func(reason DisconnectReason) {
		reasons = append(reasons, reason)
	})

	injectFromGateway(t, sock, &packets.DisconnectPacket{})
	require.Equal(t, StateDisconnected, cl.State())
	require.Equal(t, []DisconnectReason{DisconnectServer}, reasons)
}

func TestSpoofedDisconnectIgnored(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var reasons []DisconnectReason
	cl.SetDisconnectedCallback(func(reason DisconnectReason) {
		reasons = append(reasons, reason)
	})

	sock.Inject(encodeFrame(t, &packets.DisconnectPacket{}), otherAddr, gwPort)

	require.Equal(t, StateActive, cl.State())
	require.Empty(t, reasons)
}

func TestGatewayIdentityFilter(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var fired int
	require.NoError(t, cl.Subscribe("sensors/temp", Qos0, func(code byte, topicID TopicID) {
		fired++
	}))

	var published, received int
	cl.SetPublishedCallback(func(code byte, topicID TopicID) { published++ })
	cl.SetPublishReceivedCallback(func(payload []byte, qos QoS, topicID TopicID) { received++ })

	// Matching packets from a stranger must all be ignored.
	sock.Inject(encodeFrame(t, &packets.SubackPacket{PacketID: 1, TopicID: 7}), otherAddr, gwPort)
	sock.Inject(encodeFrame(t, &packets.PubackPacket{TopicID: 7, PacketID: 1}), otherAddr, gwPort)
	sock.Inject(encodeFrame(t, &packets.PublishPacket{TopicID: 7, PacketID: 9}), gwAddr, gwPort+1)
	sock.Inject(encodeFrame(t, &packets.PingrespPacket{}), otherAddr, gwPort)

	require.Equal(t, 0, fired)
	require.Equal(t, 0, published)
	require.Equal(t, 0, received)
	require.Equal(t, 1, cl.subscribeQueue.len())
}

func TestStopDrainsQueues(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var subTimeouts, regTimeouts, unsubTimeouts int
	require.NoError(t, cl.Subscribe("sensors/temp", Qos0, func(code byte, topicID TopicID) {
		require.Equal(t, packets.Timeout, code)
		require.Equal(t, TopicID(0), topicID)
		subTimeouts++
	}))
	require.NoError(t, cl.Register("sensors/humidity", func(code byte, topicID TopicID) {
		require.Equal(t, packets.Timeout, code)
		regTimeouts++
	}))
	require.NoError(t, cl.Unsubscribe(7, func(code byte) {
		require.Equal(t, packets.Timeout, code)
		unsubTimeouts++
	}))

	var reasons []DisconnectReason
	cl.SetDisconnectedCallback(func(reason DisconnectReason) {
		reasons = append(reasons, reason)
	})

	require.NoError(t, cl.Stop())

	require.True(t, sock.Closed)
	require.Equal(t, StateDisconnected, cl.State())
	require.Equal(t, []DisconnectReason{DisconnectClient}, reasons)
	require.Equal(t, 1, subTimeouts)
	require.Equal(t, 1, regTimeouts)
	require.Equal(t, 1, unsubTimeouts)
	require.Equal(t, 0, cl.totalPending())
}

func TestOperationsRequireActive(t *testing.T) {
	cl, sock, _ := newTestClient(t)

	require.Equal(t, ErrInvalidState, cl.Subscribe("sensors/temp", Qos0, nil))
	require.Equal(t, ErrInvalidState, cl.Register("sensors/temp", nil))
	require.Equal(t, ErrInvalidState, cl.Publish([]byte("x"), Qos0, 7))
	require.Equal(t, ErrInvalidState, cl.Unsubscribe(7, nil))
	require.Equal(t, ErrInvalidState, cl.Disconnect())
	require.Equal(t, ErrInvalidState, cl.Sleep(300))
	require.Equal(t, ErrInvalidState, cl.Awake(5))

	require.Empty(t, sock.Sent)
	require.Equal(t, 0, cl.totalPending())
}

func TestQosAboveZeroNotImplemented(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	sends := len(sock.Sent)
	require.Equal(t, ErrNotImplemented, cl.Subscribe("sensors/temp", Qos1, nil))
	require.Equal(t, ErrNotImplemented, cl.Publish([]byte("x"), Qos2, 7))
	require.Len(t, sock.Sent, sends)
}

func TestKeepAliveResetOnSend(t *testing.T) {
	cl, sock, clk := newTestClient(t)
	activateSession(t, cl, sock)

	clk.advance(20000)
	require.NoError(t, cl.Publish([]byte("21.5"), Qos0, 7))
	require.Equal(t, clk.now+55000, cl.pingReqTime)
}

func TestSendFailureKeepsTimers(t *testing.T) {
	cl, sock, clk := newTestClient(t)
	activateSession(t, cl, sock)
	before := cl.pingReqTime

	clk.advance(5000)
	sock.ErrorSend = transport.ErrSocketClosed
	err := cl.Publish([]byte("21.5"), Qos0, 7)
	require.ErrorIs(t, err, ErrFailed)
	require.Equal(t, before, cl.pingReqTime)
}

func TestPacketIDAllocation(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	require.NoError(t, cl.Subscribe("a", Qos0, nil))
	require.NoError(t, cl.Register("b", nil))

	sub := sentPacket(t, sock, 1).(*packets.SubscribePacket)
	reg := sentPacket(t, sock, 2).(*packets.RegisterPacket)
	require.Equal(t, uint16(1), sub.PacketID)
	require.Equal(t, uint16(2), reg.PacketID)

	// No two simultaneously pending entries share a packet id.
	require.Nil(t, cl.registerQueue.find(sub.PacketID))
	require.NotNil(t, cl.subscribeQueue.find(1))
	require.NotNil(t, cl.registerQueue.find(2))
}

func TestPacketIDWrapSkipsZero(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	cl.mu.Lock()
	cl.packetID = 65535
	cl.mu.Unlock()

	require.NoError(t, cl.Subscribe("a", Qos0, nil))
	require.NoError(t, cl.Register("b", nil))

	sub := sentPacket(t, sock, 1).(*packets.SubscribePacket)
	reg := sentPacket(t, sock, 2).(*packets.RegisterPacket)
	require.Equal(t, uint16(65535), sub.PacketID)
	require.Equal(t, uint16(1), reg.PacketID)
}

func TestPendingCapEnforced(t *testing.T) {
	sock := transport.NewMockSocket()
	cl := New(&Options{
		Socket:             sock,
		Clock:              &testClock{now: 1000},
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxPendingMessages: 1,
	})
	require.NoError(t, cl.Start(47193))
	activateSession(t, cl, sock)

	require.NoError(t, cl.Subscribe("a", Qos0, nil))
	require.Equal(t, ErrNoBuffers, cl.Register("b", nil))
	require.Equal(t, 1, cl.totalPending())
}

func TestRegisterCorrelation(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var gotCode byte
	var gotTopic TopicID
	require.NoError(t, cl.Register("sensors/temp", func(code byte, topicID TopicID) {
		gotCode, gotTopic = code, topicID
	}))

	injectFromGateway(t, sock, &packets.RegackPacket{TopicID: 7, PacketID: 1, ReturnCode: packets.Accepted})
	require.Equal(t, packets.Accepted, gotCode)
	require.Equal(t, TopicID(7), gotTopic)
	require.Equal(t, 0, cl.registerQueue.len())
}

func TestUnsubscribeCorrelation(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var fired int
	require.NoError(t, cl.Unsubscribe(7, func(code byte) {
		require.Equal(t, packets.Accepted, code)
		fired++
	}))

	us, ok := sentPacket(t, sock, 1).(*packets.UnsubscribePacket)
	require.True(t, ok)
	require.Equal(t, uint16(7), us.TopicID)

	injectFromGateway(t, sock, &packets.UnsubackPacket{PacketID: 1})
	require.Equal(t, 1, fired)
	require.Equal(t, 0, cl.unsubscribeQueue.len())
}

func TestPubackSurfaced(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	var gotCode byte
	var gotTopic TopicID
	cl.SetPublishedCallback(func(code byte, topicID TopicID) {
		gotCode, gotTopic = code, topicID
	})

	injectFromGateway(t, sock, &packets.PubackPacket{TopicID: 7, PacketID: 1, ReturnCode: packets.RejectedInvalidTopicID})
	require.Equal(t, packets.RejectedInvalidTopicID, gotCode)
	require.Equal(t, TopicID(7), gotTopic)
}

func TestPingreqAnswered(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	injectFromGateway(t, sock, &packets.PingreqPacket{})

	d, ok := sock.LastSent()
	require.True(t, ok)
	require.Equal(t, gwAddr, d.Addr)
	require.Equal(t, gwPort, d.Port)

	_, ok = sentPacket(t, sock, len(sock.Sent)-1).(*packets.PingrespPacket)
	require.True(t, ok)
}

func TestAdvertiseCallback(t *testing.T) {
	cl, sock, _ := newTestClient(t)

	var gotAddr netip.Addr
	var gotID byte
	var gotDuration uint16
	cl.SetAdvertiseCallback(func(addr netip.Addr, port uint16, gatewayID byte, duration uint16) {
		gotAddr, gotID, gotDuration = addr, gatewayID, duration
	})

	sock.Inject(encodeFrame(t, &packets.AdvertisePacket{GatewayID: 2, Duration: 900}), otherAddr, gwPort)

	require.Equal(t, otherAddr, gotAddr)
	require.Equal(t, byte(2), gotID)
	require.Equal(t, uint16(900), gotDuration)
}

func TestSearchGateway(t *testing.T) {
	cl, sock, _ := newTestClient(t)

	mcast := netip.MustParseAddr("ff03::1")
	require.NoError(t, cl.SearchGateway(mcast, gwPort, 3))

	d, ok := sock.LastSent()
	require.True(t, ok)
	require.Equal(t, mcast, d.Addr)
	require.Equal(t, uint8(3), d.HopLimit)

	sg, ok := sentPacket(t, sock, 0).(*packets.SearchGwPacket)
	require.True(t, ok)
	require.Equal(t, byte(3), sg.Radius)
}

func TestGwInfoSenderAddress(t *testing.T) {
	cl, sock, _ := newTestClient(t)

	var gotAddr netip.Addr
	var gotID byte
	cl.SetSearchGwCallback(func(addr netip.Addr, port uint16, gatewayID byte) {
		gotAddr, gotID = addr, gatewayID
	})

	sock.Inject(encodeFrame(t, &packets.GwInfoPacket{GatewayID: 2}), otherAddr, gwPort)
	require.Equal(t, otherAddr, gotAddr)
	require.Equal(t, byte(2), gotID)
}

func TestGwInfoCarriedAddressPreferred(t *testing.T) {
	cl, sock, _ := newTestClient(t)

	var gotAddr netip.Addr
	cl.SetSearchGwCallback(func(addr netip.Addr, port uint16, gatewayID byte) {
		gotAddr = addr
	})

	sock.Inject(encodeFrame(t, &packets.GwInfoPacket{
		GatewayID:      2,
		GatewayAddress: gwAddr.AsSlice(),
	}), otherAddr, gwPort)

	require.Equal(t, gwAddr, gotAddr)
}

func TestRetransmitBeforeTimeout(t *testing.T) {
	sock := transport.NewMockSocket()
	clk := &testClock{now: 1000}
	cl := New(&Options{
		Socket:        sock,
		Clock:         clk,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxRetransmit: 1,
	})
	require.NoError(t, cl.Start(47193))
	activateSession(t, cl, sock)

	var fired int
	require.NoError(t, cl.Subscribe("sensors/temp", Qos0, func(code byte, topicID TopicID) {
		require.Equal(t, packets.Timeout, code)
		fired++
	}))
	frame := sock.Sent[1].Data

	clk.advance(10000)
	require.NoError(t, cl.Process())

	// The stored frame copy went out again, byte for byte.
	require.Equal(t, 0, fired)
	require.Equal(t, 1, cl.subscribeQueue.len())
	d, ok := sock.LastSent()
	require.True(t, ok)
	require.Equal(t, frame, d.Data)

	clk.advance(10000)
	require.NoError(t, cl.Process())
	require.Equal(t, 1, fired)
	require.Equal(t, 0, cl.subscribeQueue.len())
}

func TestMalformedFramesDropped(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)

	sock.Inject([]byte{0x01}, gwAddr, gwPort)                     // too short
	sock.Inject([]byte{0x09, packets.Connack, 0}, gwAddr, gwPort) // length mismatch
	sock.Inject(make([]byte, 300), gwAddr, gwPort)                // oversized

	require.Equal(t, StateActive, cl.State())
}

func TestCallbackReentrancy(t *testing.T) {
	cl, sock, _ := newTestClient(t)

	// Subscribing from within the connected callback must not deadlock.
	var subErr error
	cl.SetConnectedCallback(func(code byte) {
		subErr = cl.Subscribe("sensors/temp", Qos0, nil)
	})

	require.NoError(t, cl.Connect(testConfig()))
	injectFromGateway(t, sock, &packets.ConnackPacket{ReturnCode: packets.Accepted})

	require.NoError(t, subErr)
	require.Equal(t, 1, cl.subscribeQueue.len())
}

func TestConnectFromAsleep(t *testing.T) {
	cl, sock, _ := newTestClient(t)
	activateSession(t, cl, sock)
	require.NoError(t, cl.Sleep(300))
	injectFromGateway(t, sock, &packets.DisconnectPacket{})
	require.Equal(t, StateAsleep, cl.State())

	require.NoError(t, cl.Connect(testConfig()))
	injectFromGateway(t, sock, &packets.ConnackPacket{ReturnCode: packets.Accepted})
	require.Equal(t, StateActive, cl.State())
}

func TestStopWhileDisconnected(t *testing.T) {
	cl, sock, _ := newTestClient(t)

	var reasons []DisconnectReason
	cl.SetDisconnectedCallback(func(reason DisconnectReason) {
		reasons = append(reasons, reason)
	})

	require.NoError(t, cl.Stop())
	require.True(t, sock.Closed)
	require.Empty(t, reasons)
}
