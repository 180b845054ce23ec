// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package mqttsn

import (
	"net/netip"

	"github.com/fogline/mqttsn/packets"
)

// receive decodes an inbound datagram, validates it against the gateway
// identity and session state, and routes it to its handler. Invalid frames
// are dropped silently; the sender of a datagram is never trusted until it
// matches the configured gateway.
func (c *Client) receive(data []byte, addr netip.Addr, port uint16) {
	c.mu.Lock()
	defer c.unlockAndFire()

	if len(data) > packets.MaxPacketSize || len(data) < packets.MinPacketSize {
		c.Log.Debug("dropped frame with invalid length", "bytes", len(data), "from", addr)
		return
	}

	pk, err := packets.ReadPacket(data)
	if err != nil {
		c.Log.Debug("dropped malformed frame", "error", err, "from", addr)
		return
	}

	// ADVERTISE, GWINFO and PINGREQ may legitimately arrive from peers
	// other than the configured gateway; everything else must not.
	switch pk.(type) {
	case *packets.AdvertisePacket, *packets.GwInfoPacket, *packets.PingreqPacket:
	default:
		if !c.verifyGatewayAddress(addr, port) {
			c.Log.Debug("dropped frame from unknown peer", "from", addr, "port", port)
			return
		}
	}

	switch pk := pk.(type) {
	case *packets.ConnackPacket:
		c.processConnack(pk)
	case *packets.SubackPacket:
		c.processSuback(pk)
	case *packets.RegackPacket:
		c.processRegack(pk)
	case *packets.PubackPacket:
		c.processPuback(pk)
	case *packets.UnsubackPacket:
		c.processUnsuback(pk)
	case *packets.PublishPacket:
		c.processPublish(pk)
	case *packets.PingreqPacket:
		c.processPingreq(pk, addr, port)
	case *packets.PingrespPacket:
		c.processPingresp(pk)
	case *packets.DisconnectPacket:
		c.processDisconnect(pk)
	case *packets.AdvertisePacket:
		c.processAdvertise(pk, addr, port)
	case *packets.GwInfoPacket:
		c.processGwInfo(pk, addr, port)
	}
}

// verifyGatewayAddress reports whether a datagram came from the gateway
// the session was configured against.
func (c *Client) verifyGatewayAddress(addr netip.Addr, port uint16) bool {
	return addr == c.config.GatewayAddress && port == c.config.GatewayPort
}

// processConnack completes session establishment.
func (c *Client) processConnack(pk *packets.ConnackPacket) {
	c.state = StateActive
	c.gwTimeout = 0
	c.pingReqTime = c.clock.Now() + c.keepAliveMillis()

	c.Log.Info("session active", "code", packets.CodeNames[pk.ReturnCode])
	if cb := c.on.connected; cb != nil {
		code := pk.ReturnCode
		c.deferCallback(func() { cb(code) })
	}
}

// processSuback correlates a SUBACK against the subscribe queue. Unknown
// packet ids are dropped without touching the queue.
func (c *Client) processSuback(pk *packets.SubackPacket) {
	if c.state != StateActive {
		return
	}

	m, ok := c.subscribeQueue.dequeue(pk.PacketID)
	if !ok {
		c.Log.Debug("dropped suback with unknown packet id", "packet_id", pk.PacketID)
		return
	}

	if cb := m.callback; cb != nil {
		code, topicID := pk.ReturnCode, TopicID(pk.TopicID)
		c.deferCallback(func() { cb(code, topicID) })
	}
}

// processRegack correlates a REGACK against the register queue.
func (c *Client) processRegack(pk *packets.RegackPacket) {
	if c.state != StateActive {
		return
	}

	m, ok := c.registerQueue.dequeue(pk.PacketID)
	if !ok {
		c.Log.Debug("dropped regack with unknown packet id", "packet_id", pk.PacketID)
		return
	}

	if cb := m.callback; cb != nil {
		code, topicID := pk.ReturnCode, TopicID(pk.TopicID)
		c.deferCallback(func() { cb(code, topicID) })
	}
}

// processPuback surfaces a gateway publish report. At QoS 0 nothing is
// tracked, so the report goes straight to the published callback.
func (c *Client) processPuback(pk *packets.PubackPacket) {
	if c.state != StateActive {
		return
	}

	if cb := c.on.published; cb != nil {
		code, topicID := pk.ReturnCode, TopicID(pk.TopicID)
		c.deferCallback(func() { cb(code, topicID) })
	}
}

// processUnsuback correlates an UNSUBACK against the unsubscribe queue.
// UNSUBACK carries no return code; reaching here means acceptance.
func (c *Client) processUnsuback(pk *packets.UnsubackPacket) {
	if c.state != StateActive {
		return
	}

	m, ok := c.unsubscribeQueue.dequeue(pk.PacketID)
	if !ok {
		c.Log.Debug("dropped unsuback with unknown packet id", "packet_id", pk.PacketID)
		return
	}

	if cb := m.callback; cb != nil {
		c.deferCallback(func() { cb(packets.Accepted) })
	}
}

// processPublish delivers an application message. Awake clients receive
// messages the gateway buffered while they slept.
func (c *Client) processPublish(pk *packets.PublishPacket) {
	if c.state != StateActive && c.state != StateAwake {
		return
	}

	if cb := c.on.publishReceived; cb != nil {
		payload, qos, topicID := pk.Payload, QoS(pk.QoS), TopicID(pk.TopicID)
		c.deferCallback(func() { cb(payload, qos, topicID) })
	}
}

// processPingreq answers a gateway keep-alive probe.
func (c *Client) processPingreq(pk *packets.PingreqPacket, addr netip.Addr, port uint16) {
	if c.state != StateActive {
		return
	}

	data, err := c.encode(&packets.PingrespPacket{})
	if err != nil {
		return
	}

	if err := c.sendMessage(data, addr, port, 0); err != nil {
		c.Log.Debug("failed answering pingreq", "error", err)
	}
}

// processPingresp clears the liveness deadline. For an Awake client the
// PINGRESP marks the end of the buffered-message flush, so the session
// returns to Asleep.
func (c *Client) processPingresp(pk *packets.PingrespPacket) {
	c.gwTimeout = 0

	if c.state == StateAwake {
		c.state = StateAsleep
		if cb := c.on.disconnected; cb != nil {
			c.deferCallback(func() { cb(DisconnectAsleep) })
		}
	}
}

// processDisconnect ends or suspends the session. The intent flags decide
// whether this is the sleep handshake completing, a requested disconnect,
// or the gateway dropping us.
func (c *Client) processDisconnect(pk *packets.DisconnectPacket) {
	if c.state != StateActive && c.state != StateAwake && c.state != StateAsleep {
		return
	}

	state, reason := StateDisconnected, DisconnectServer
	if c.sleepRequested && !c.disconnectRequested {
		state, reason = StateAsleep, DisconnectAsleep
	}

	c.onDisconnected()
	c.state = state

	c.Log.Info("session ended", "state", state, "reason", reason)
	if cb := c.on.disconnected; cb != nil {
		r := reason
		c.deferCallback(func() { cb(r) })
	}
}

// processAdvertise surfaces an overheard gateway advertisement.
func (c *Client) processAdvertise(pk *packets.AdvertisePacket, addr netip.Addr, port uint16) {
	if cb := c.on.advertise; cb != nil {
		gatewayID, duration := pk.GatewayID, pk.Duration
		c.deferCallback(func() { cb(addr, port, gatewayID, duration) })
	}
}

// processGwInfo surfaces a gateway discovered via SEARCHGW. A GWINFO
// relayed by another client carries the gateway's own address; a GWINFO
// from the gateway itself identifies it by its sender address.
func (c *Client) processGwInfo(pk *packets.GwInfoPacket, addr netip.Addr, port uint16) {
	cb := c.on.searchGw
	if cb == nil {
		return
	}

	gwAddr := addr
	if parsed, ok := netip.AddrFromSlice(pk.GatewayAddress); ok {
		gwAddr = parsed
	}

	gatewayID := pk.GatewayID
	c.deferCallback(func() { cb(gwAddr, port, gatewayID) })
}
