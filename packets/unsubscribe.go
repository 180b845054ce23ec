// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// UnsubscribePacket contains the values of an MQTT-SN UNSUBSCRIBE packet.
// This client addresses the subscription by its gateway-assigned topic id.
type UnsubscribePacket struct {
	FixedHeader

	TopicIDType byte
	PacketID    uint16
	TopicName   string
	TopicID     uint16
}

// Encode encodes and writes the packet data values to the writer.
func (pk *UnsubscribePacket) Encode(w io.Writer) error {
	if pk.PacketID == 0 {
		return ErrMissingPacketID
	}

	var body bytes.Buffer
	body.WriteByte(Flags{TopicIDType: pk.TopicIDType}.encode())
	body.Write(encodeUint16(pk.PacketID))

	if pk.TopicIDType == TopicIDTypeNormal && pk.TopicName != "" {
		body.WriteString(pk.TopicName)
	} else {
		body.Write(encodeUint16(pk.TopicID))
	}

	pk.FixedHeader.Type = Unsubscribe
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
func (pk *UnsubscribePacket) Decode(buf []byte) error {
	var flags Flags
	b, offset, err := decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedFlags
	}
	flags.decode(b)
	pk.TopicIDType = flags.TopicIDType

	pk.PacketID, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedPacketID
	}

	if pk.TopicIDType == TopicIDTypeNormal && len(buf)-offset != 2 {
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
func (pk *UnsubscribePacket) Validate() (byte, error) {
	if pk.PacketID == 0 {
		return Failed, ErrMissingPacketID
	}

	return Accepted, nil
}
