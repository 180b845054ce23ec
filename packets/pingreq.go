// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// PingreqPacket contains the values of an MQTT-SN PINGREQ packet. The
// client id field is populated by sleeping clients signalling the gateway
// to flush buffered messages.
type PingreqPacket struct {
	FixedHeader

	ClientID string
}

// Encode encodes and writes the packet data values to the writer.
func (pk *PingreqPacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	body.WriteString(pk.ClientID)

	pk.FixedHeader.Type = Pingreq
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
func (pk *PingreqPacket) Decode(buf []byte) error {
	var err error
	pk.ClientID, err = decodeTailString(buf, 0)
	if err != nil {
		return ErrMalformedClientID
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *PingreqPacket) Validate() (byte, error) {
	return Accepted, nil
}
