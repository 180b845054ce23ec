// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// RegisterPacket contains the values of an MQTT-SN REGISTER packet. A
// client sends it with a zero topic id to request an id for a topic name.
type RegisterPacket struct {
	FixedHeader

	TopicID   uint16
	PacketID  uint16
	TopicName string
}

// Encode encodes and writes the packet data values to the writer.
func (pk *RegisterPacket) Encode(w io.Writer) error {
	if pk.PacketID == 0 {
		return ErrMissingPacketID
	}

	var body bytes.Buffer
	body.Write(encodeUint16(pk.TopicID))
	body.Write(encodeUint16(pk.PacketID))
	body.WriteString(pk.TopicName)

	pk.FixedHeader.Type = Register
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
func (pk *RegisterPacket) Decode(buf []byte) error {
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

	pk.TopicName, err = decodeTailString(buf, offset)
	if err != nil {
		return ErrMalformedTopic
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *RegisterPacket) Validate() (byte, error) {
	if pk.TopicName == "" {
		return Failed, ErrMalformedTopic
	}

	return Accepted, nil
}
