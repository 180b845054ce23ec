// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// UnsubackPacket contains the values of an MQTT-SN UNSUBACK packet.
type UnsubackPacket struct {
	FixedHeader

	PacketID uint16
}

// Encode encodes and writes the packet data values to the writer.
func (pk *UnsubackPacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	body.Write(encodeUint16(pk.PacketID))

	pk.FixedHeader.Type = Unsuback
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *UnsubackPacket) Decode(buf []byte) error {
	var err error
	pk.PacketID, _, err = decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedPacketID
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *UnsubackPacket) Validate() (byte, error) {
	if pk.PacketID == 0 {
		return Failed, ErrMissingPacketID
	}

	return Accepted, nil
}
