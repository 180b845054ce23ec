// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// AdvertisePacket contains the values of an MQTT-SN ADVERTISE packet,
// broadcast periodically by gateways.
type AdvertisePacket struct {
	FixedHeader

	GatewayID byte
	Duration  uint16
}

// Encode encodes and writes the packet data values to the writer.
func (pk *AdvertisePacket) Encode(w io.Writer) error {
	var body bytes.Buffer
	body.WriteByte(pk.GatewayID)
	body.Write(encodeUint16(pk.Duration))

	pk.FixedHeader.Type = Advertise
	out := new(bytes.Buffer)
	pk.FixedHeader.Encode(out, body.Len())
	out.Write(body.Bytes())

	_, err := out.WriteTo(w)
	return err
}

// Decode extracts the data values from the packet.
func (pk *AdvertisePacket) Decode(buf []byte) error {
	var err error
	var offset int

	pk.GatewayID, offset, err = decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedGatewayID
	}

	pk.Duration, _, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedDuration
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *AdvertisePacket) Validate() (byte, error) {
	return Accepted, nil
}
