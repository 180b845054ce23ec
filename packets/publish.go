// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// PublishPacket contains the values of an MQTT-SN PUBLISH packet. The
// topic is addressed by a gateway-assigned id rather than a name.
type PublishPacket struct {
	FixedHeader

	Dup         bool
	QoS         byte
	Retain      bool
	TopicIDType byte
	TopicID     uint16
	PacketID    uint16
	Payload     []byte
}

// Encode encodes and writes the packet data values to the writer.
func (pk *PublishPacket) Encode(w io.Writer) error {
	var body bytes.Buffer

	body.WriteByte(Flags{
		Dup:         pk.Dup,
		QoS:         pk.QoS,
		Retain:      pk.Retain,
		TopicIDType: pk.TopicIDType,
	}.encode())
	body.Write(encodeUint16(pk.TopicID))
	body.Write(encodeUint16(pk.PacketID))
	body.Write(pk.Payload)

	pk.FixedHeader.Type = Publish
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	if out.Len() > MaxPacketSize {
		return ErrOversizedPacket
	}

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *PublishPacket) Decode(buf []byte) error {
	var flags Flags
	b, offset, err := decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedFlags
	}
	flags.decode(b)
	pk.Dup = flags.Dup
	pk.QoS = flags.QoS
	pk.Retain = flags.Retain
	pk.TopicIDType = flags.TopicIDType

	pk.TopicID, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedTopicID
	}

	pk.PacketID, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedPacketID
	}

	pk.Payload, err = decodeTailBytes(buf, offset)
	if err != nil {
		return ErrMalformedOffsetBytesOutOfRange
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *PublishPacket) Validate() (byte, error) {
	if !validateQoS(pk.QoS) {
		return Failed, ErrMalformedQoS
	}

	// A packet id is only required at QoS 1 and 2.
	if pk.QoS > 0 && pk.PacketID == 0 {
		return Failed, ErrMissingPacketID
	}

	return Accepted, nil
}
