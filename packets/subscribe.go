// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// SubscribePacket contains the values of an MQTT-SN SUBSCRIBE packet. Only
// the long topic name form is produced by this client; the predefined and
// short forms are decoded for completeness.
type SubscribePacket struct {
	FixedHeader

	Dup         bool
	QoS         byte
	TopicIDType byte
	PacketID    uint16
	TopicName   string
	TopicID     uint16
}

// Encode encodes and writes the packet data values to the writer.
func (pk *SubscribePacket) Encode(w io.Writer) error {
	if pk.PacketID == 0 {
		return ErrMissingPacketID
	}

	var body bytes.Buffer
	body.WriteByte(Flags{
		Dup:         pk.Dup,
		QoS:         pk.QoS,
		TopicIDType: pk.TopicIDType,
	}.encode())
	body.Write(encodeUint16(pk.PacketID))

	if pk.TopicIDType == TopicIDTypeNormal {
		body.WriteString(pk.TopicName)
	} else {
		body.Write(encodeUint16(pk.TopicID))
	}

	pk.FixedHeader.Type = Subscribe
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
func (pk *SubscribePacket) Decode(buf []byte) error {
	var flags Flags
	b, offset, err := decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedFlags
	}
	flags.decode(b)
	pk.Dup = flags.Dup
	pk.QoS = flags.QoS
	pk.TopicIDType = flags.TopicIDType

	pk.PacketID, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedPacketID
	}

	if pk.TopicIDType == TopicIDTypeNormal {
		pk.TopicName, err = decodeTailString(buf, offset)
		if err != nil {
			return ErrMalformedTopic
		}
	} else {
		pk.TopicID, _, err = decodeUint16(buf, offset)
		if err != nil {
			return ErrMalformedTopicID
		}
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *SubscribePacket) Validate() (byte, error) {
	if pk.PacketID == 0 {
		return Failed, ErrMissingPacketID
	}

	if !validateQoS(pk.QoS) {
		return Failed, ErrMalformedQoS
	}

	if pk.TopicIDType == TopicIDTypeNormal && pk.TopicName == "" {
		return Failed, ErrMalformedTopic
	}

	return Accepted, nil
}
