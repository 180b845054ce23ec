// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"errors"
)

var (
	// FRAMING
	ErrMalformedLength       = errors.New("malformed packet: length")
	ErrUnsupportedPacketType = errors.New("unsupported packet type")

	// CONNECT
	ErrMalformedProtocolID = errors.New("malformed packet: protocol id")
	ErrMalformedClientID   = errors.New("malformed packet: client id")
	ErrMalformedDuration   = errors.New("malformed packet: duration")

	// CONNACK / *ACK
	ErrMalformedReturnCode = errors.New("malformed packet: return code")

	// PUBLISH / SUBSCRIBE / REGISTER
	ErrMalformedFlags    = errors.New("malformed packet: flags")
	ErrMalformedTopic    = errors.New("malformed packet: topic name")
	ErrMalformedTopicID  = errors.New("malformed packet: topic id")
	ErrMalformedPacketID = errors.New("malformed packet: packet id")
	ErrMalformedQoS      = errors.New("malformed packet: qos")

	// GWINFO / ADVERTISE / SEARCHGW
	ErrMalformedGatewayID      = errors.New("malformed packet: gateway id")
	ErrMalformedGatewayAddress = errors.New("malformed packet: gateway address")
	ErrMalformedRadius         = errors.New("malformed packet: radius")

	// PACKETS
	ErrMalformedOffsetUintOutOfRange  = errors.New("malformed packet: offset uint out of range")
	ErrMalformedOffsetByteOutOfRange  = errors.New("malformed packet: offset byte out of range")
	ErrMalformedOffsetBytesOutOfRange = errors.New("malformed packet: offset bytes out of range")
	ErrMalformedInvalidUTF8           = errors.New("malformed packet: invalid utf-8 string")
	ErrMissingPacketID                = errors.New("missing packet id")
	ErrOversizedPacket                = errors.New("oversized packet")
)
