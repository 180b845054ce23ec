// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// PubackPacket contains the values of an MQTT-SN PUBACK packet. A gateway
// sends it in response to a QoS 0 PUBLISH only to report an error, such as
// an unknown topic id.
type PubackPacket struct {
	FixedHeader

	TopicID    uint16
	PacketID   uint16
	ReturnCode byte
}

// Encode encodes and writes the packet data values to the writer.
func (pk *PubackPacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	body.Write(encodeUint16(pk.TopicID))
	body.Write(encodeUint16(pk.PacketID))
	body.WriteByte(pk.ReturnCode)

	pk.FixedHeader.Type = Puback
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *PubackPacket) Decode(buf []byte) error {
	var err error
	var offset int

	pk.TopicID, offset, err = decodeUint16(buf, 0)
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
func (pk *PubackPacket) Validate() (byte, error) {
	return Accepted, nil
}
