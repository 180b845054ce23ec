// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

// Package packets provides an encoder and decoder for MQTT-SN v1.2 control
// packets as used between a client and a gateway on a UDP transport.
package packets

import (
	"io"
)

// All of the valid packet types and their type identifier octet.
const (
	Advertise     byte = 0x00
	SearchGw      byte = 0x01
	GwInfo        byte = 0x02
	Connect       byte = 0x04
	Connack       byte = 0x05
	WillTopicReq  byte = 0x06
	WillTopic     byte = 0x07
	WillMsgReq    byte = 0x08
	WillMsg       byte = 0x09
	Register      byte = 0x0A
	Regack        byte = 0x0B
	Publish       byte = 0x0C
	Puback        byte = 0x0D
	Pubcomp       byte = 0x0E
	Pubrec        byte = 0x0F
	Pubrel        byte = 0x10
	Subscribe     byte = 0x12
	Suback        byte = 0x13
	Unsubscribe   byte = 0x14
	Unsuback      byte = 0x15
	Pingreq       byte = 0x16
	Pingresp      byte = 0x17
	Disconnect    byte = 0x18
	WillTopicUpd  byte = 0x1A
	WillTopicResp byte = 0x1B
	WillMsgUpd    byte = 0x1C
	WillMsgResp   byte = 0x1D
)

const (
	// MaxPacketSize is the largest frame this implementation will accept
	// or produce. Frames on a 6LoWPAN mesh must fit a single-octet length.
	MaxPacketSize = 255

	// MinPacketSize is the smallest frame which can carry a packet type.
	MinPacketSize = 2
)

// Topic id type values carried in the flags octet of SUBSCRIBE, UNSUBSCRIBE,
// PUBLISH and REGISTER packets.
const (
	TopicIDTypeNormal     byte = 0x00
	TopicIDTypePredefined byte = 0x01
	TopicIDTypeShort      byte = 0x02
)

// Names is a map that provides human-readable names for the different
// MQTT-SN packet types based on their ids.
var Names = map[byte]string{
	Advertise:   "ADVERTISE",
	SearchGw:    "SEARCHGW",
	GwInfo:      "GWINFO",
	Connect:     "CONNECT",
	Connack:     "CONNACK",
	Register:    "REGISTER",
	Regack:      "REGACK",
	Publish:     "PUBLISH",
	Puback:      "PUBACK",
	Subscribe:   "SUBSCRIBE",
	Suback:      "SUBACK",
	Unsubscribe: "UNSUBSCRIBE",
	Unsuback:    "UNSUBACK",
	Pingreq:     "PINGREQ",
	Pingresp:    "PINGRESP",
	Disconnect:  "DISCONNECT",
}

// Packet is the base interface that all MQTT-SN packets must implement.
type Packet interface {

	// Encode encodes the packet, including its fixed header, to a writer.
	Encode(w io.Writer) error

	// Decode decodes the variable part of the packet (the bytes following
	// the length and packet type octets) into the packet struct.
	Decode(buf []byte) error

	// Validate the packet. Returns a return code and error if not valid.
	Validate() (byte, error)
}

// NewPacket returns an empty packet struct for the given packet type.
func NewPacket(t byte) (pk Packet, err error) {
	switch t {
	case Advertise:
		pk = new(AdvertisePacket)
	case SearchGw:
		pk = new(SearchGwPacket)
	case GwInfo:
		pk = new(GwInfoPacket)
	case Connect:
		pk = new(ConnectPacket)
	case Connack:
		pk = new(ConnackPacket)
	case Register:
		pk = new(RegisterPacket)
	case Regack:
		pk = new(RegackPacket)
	case Publish:
		pk = new(PublishPacket)
	case Puback:
		pk = new(PubackPacket)
	case Subscribe:
		pk = new(SubscribePacket)
	case Suback:
		pk = new(SubackPacket)
	case Unsubscribe:
		pk = new(UnsubscribePacket)
	case Unsuback:
		pk = new(UnsubackPacket)
	case Pingreq:
		pk = new(PingreqPacket)
	case Pingresp:
		pk = new(PingrespPacket)
	case Disconnect:
		pk = new(DisconnectPacket)
	default:
		err = ErrUnsupportedPacketType
	}

	return
}

// ReadPacket decodes a complete datagram into a packet struct. The declared
// length must agree with the number of bytes received, otherwise the frame
// is rejected as malformed.
func ReadPacket(buf []byte) (Packet, error) {
	fh := new(FixedHeader)
	n, err := fh.Decode(buf)
	if err != nil {
		return nil, err
	}

	if int(fh.Length) != len(buf) {
		return nil, ErrMalformedLength
	}

	pk, err := NewPacket(fh.Type)
	if err != nil {
		return nil, err
	}

	err = pk.Decode(buf[n:])
	if err != nil {
		return nil, err
	}

	return pk, nil
}
