// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// SearchGwPacket contains the values of an MQTT-SN SEARCHGW packet,
// multicast by clients looking for a gateway.
type SearchGwPacket struct {
	FixedHeader

	// Radius is the broadcast radius (hop limit) the request should travel.
	Radius byte
}

// Encode encodes and writes the packet data values to the writer.
func (pk *SearchGwPacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	body.WriteByte(pk.Radius)

	pk.FixedHeader.Type = SearchGw
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *SearchGwPacket) Decode(buf []byte) error {
	var err error
	pk.Radius, _, err = decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedRadius
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *SearchGwPacket) Validate() (byte, error) {
	return Accepted, nil
}
