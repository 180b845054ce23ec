// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// ConnackPacket contains the values of an MQTT-SN CONNACK packet.
type ConnackPacket struct {
	FixedHeader

	ReturnCode byte
}

// Encode encodes and writes the packet data values to the writer.
func (pk *ConnackPacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	body.WriteByte(pk.ReturnCode)

	pk.FixedHeader.Type = Connack
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *ConnackPacket) Decode(buf []byte) error {
	var err error
	pk.ReturnCode, _, err = decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedReturnCode
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *ConnackPacket) Validate() (byte, error) {
	return Accepted, nil
}
