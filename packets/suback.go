// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// SubackPacket contains the values of an MQTT-SN SUBACK packet.
type SubackPacket struct {
	FixedHeader

	QoS        byte
	TopicID    uint16
	PacketID   uint16
	ReturnCode byte
}

// Encode encodes and writes the packet data values to the writer.
func (pk *SubackPacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	body.WriteByte(Flags{QoS: pk.QoS}.encode())
	body.Write(encodeUint16(pk.TopicID))
	body.Write(encodeUint16(pk.PacketID))
	body.WriteByte(pk.ReturnCode)

	pk.FixedHeader.Type = Suback
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *SubackPacket) Decode(buf []byte) error {
	var flags Flags
	b, offset, err := decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedFlags
	}
	flags.decode(b)
	pk.QoS = flags.QoS

	pk.TopicID, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedTopicID
	}

	pk.PacketID, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedPacketID
	}

	pk.ReturnCode, _, err = decodeByte(buf, offset)
	if err != nil {
		return ErrMalformedReturnCode
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *SubackPacket) Validate() (byte, error) {
	if pk.PacketID == 0 {
		return Failed, ErrMissingPacketID
	}

	return Accepted, nil
}
