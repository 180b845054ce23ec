// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package mqttsn

import (
	"errors"
	"net/netip"

	"github.com/fogline/mqttsn/packets"
)

// ClientState indicates the current state of the client session.
type ClientState byte

const (
	StateDisconnected ClientState = iota // no session established
	StateActive                          // session established, full duplex
	StateAsleep                          // gateway is buffering messages for the client
	StateAwake                           // transiently awake to collect buffered messages
	StateLost                            // gateway stopped responding
)

// String returns a readable name for the client state.
func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateActive:
		return "active"
	case StateAsleep:
		return "asleep"
	case StateAwake:
		return "awake"
	case StateLost:
		return "lost"
	}
	return "unknown"
}

// DisconnectReason indicates why the disconnected callback fired.
type DisconnectReason byte

const (
	DisconnectServer  DisconnectReason = iota // gateway ended the session
	DisconnectClient                          // local Stop()
	DisconnectAsleep                          // expected transition to sleep
	DisconnectTimeout                         // gateway liveness deadline elapsed
)

// String returns a readable name for the disconnect reason.
func (r DisconnectReason) String() string {
	switch r {
	case DisconnectServer:
		return "server"
	case DisconnectClient:
		return "client"
	case DisconnectAsleep:
		return "asleep"
	case DisconnectTimeout:
		return "timeout"
	}
	return "unknown"
}

// QoS is an MQTT-SN quality of service level. Only QoS 0 is implemented.
type QoS byte

const (
	Qos0 QoS = iota
	Qos1
	Qos2
)

// TopicID is a gateway-assigned 16-bit handle for a topic name.
type TopicID uint16

var (
	ErrInvalidState   = errors.New("operation not permitted in current client state")
	ErrNotImplemented = errors.New("not implemented")
	ErrNoBuffers      = errors.New("pending message limit reached")
	ErrFailed         = errors.New("encode or send failed")
)

// ConnectedFn is invoked when the gateway acknowledges a connect attempt,
// with the CONNACK return code.
type ConnectedFn func(code byte)

// PublishReceivedFn is invoked for each application message delivered by
// the gateway.
type PublishReceivedFn func(payload []byte, qos QoS, topicID TopicID)

// AdvertiseFn is invoked when a gateway advertisement is overheard.
type AdvertiseFn func(addr netip.Addr, port uint16, gatewayID byte, duration uint16)

// SearchGwFn is invoked when a GWINFO response to a gateway search arrives.
type SearchGwFn func(addr netip.Addr, port uint16, gatewayID byte)

// PublishedFn is invoked when the gateway reports the outcome of a
// publish, which at QoS 0 only happens on errors such as a bad topic id.
type PublishedFn func(code byte, topicID TopicID)

// DisconnectedFn is invoked whenever the session ends or suspends.
type DisconnectedFn func(reason DisconnectReason)

// SubscribeFn is invoked with the outcome of a single Subscribe request.
// On timeout the code is packets.Timeout and the topic id is zero.
type SubscribeFn func(code byte, topicID TopicID)

// RegisterFn is invoked with the outcome of a single Register request.
type RegisterFn func(code byte, topicID TopicID)

// UnsubscribeFn is invoked with the outcome of a single Unsubscribe request.
type UnsubscribeFn func(code byte)

// Accepted is re-exported so callback code does not need to import packets
// for the common success check.
const Accepted = packets.Accepted
