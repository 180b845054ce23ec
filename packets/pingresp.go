// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// PingrespPacket contains the values of an MQTT-SN PINGRESP packet.
type PingrespPacket struct {
	FixedHeader
}

// Encode encodes and writes the packet data values to the writer.
func (pk *PingrespPacket) Encode(w io.Writer) error {
	pk.FixedHeader.Type = Pingresp
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, 0)

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *PingrespPacket) Decode(buf []byte) error {
	return nil
}

// Validate ensures the packet is compliant.
func (pk *PingrespPacket) Validate() (byte, error) {
	return Accepted, nil
}
