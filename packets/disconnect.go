// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// DisconnectPacket contains the values of an MQTT-SN DISCONNECT packet. A
// non-zero duration asks the gateway to hold the session while the client
// sleeps; gateways send the two-octet form with no duration.
type DisconnectPacket struct {
	FixedHeader

	Duration uint16
}

// Encode encodes and writes the packet data values to the writer.
func (pk *DisconnectPacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	if pk.Duration > 0 {
		body.Write(encodeUint16(pk.Duration))
	}

	pk.FixedHeader.Type = Disconnect
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *DisconnectPacket) Decode(buf []byte) error {
	if len(buf) == 0 {
		pk.Duration = 0
		return nil
	}

	var err error
	pk.Duration, _, err = decodeUint16(buf, 0)
	if err != nil {
		return ErrMalformedDuration
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *DisconnectPacket) Validate() (byte, error) {
	return Accepted, nil
}
