// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// GwInfoPacket contains the values of an MQTT-SN GWINFO packet, sent in
// response to SEARCHGW. The gateway address field is only present when the
// responder is another client relaying a known gateway.
type GwInfoPacket struct {
	FixedHeader

	GatewayID      byte
	GatewayAddress []byte
}

// Encode encodes and writes the packet data values to the writer.
func (pk *GwInfoPacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	body.WriteByte(pk.GatewayID)
	body.Write(pk.GatewayAddress)

	pk.FixedHeader.Type = GwInfo
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *GwInfoPacket) Decode(buf []byte) error {
	var err error
	var offset int

	pk.GatewayID, offset, err = decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedGatewayID
	}

	pk.GatewayAddress, err = decodeTailBytes(buf, offset)
	if err != nil {
		return ErrMalformedGatewayAddress
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *GwInfoPacket) Validate() (byte, error) {
	return Accepted, nil
}
