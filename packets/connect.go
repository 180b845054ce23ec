// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"io"
)

// ProtocolID is the only protocol id defined by MQTT-SN v1.2.
const ProtocolID byte = 0x01

// ConnectPacket contains the values of an MQTT-SN CONNECT packet.
type ConnectPacket struct {
	FixedHeader

	Will         bool
	CleanSession bool
	ProtocolID   byte
	Duration     uint16
	ClientID     string
}

// Encode encodes and writes the packet data values to the writer.
func (pk *ConnectPacket) Encode(w io.Writer) error {
	var body bytes.Buffer

	body.WriteByte(Flags{Will: pk.Will, CleanSession: pk.CleanSession}.encode())
	body.WriteByte(ProtocolID)
	body.Write(encodeUint16(pk.Duration))
	body.WriteString(pk.ClientID)

	pk.FixedHeader.Type = Connect
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
func (pk *ConnectPacket) Decode(buf []byte) error {
	var flags Flags
	b, offset, err := decodeByte(buf, 0)
	if err != nil {
		return ErrMalformedFlags
	}
	flags.decode(b)
	pk.Will = flags.Will
	pk.CleanSession = flags.CleanSession

	pk.ProtocolID, offset, err = decodeByte(buf, offset)
	if err != nil {
		return ErrMalformedProtocolID
	}

	pk.Duration, offset, err = decodeUint16(buf, offset)
	if err != nil {
		return ErrMalformedDuration
	}

	pk.ClientID, err = decodeTailString(buf, offset)
	if err != nil {
		return ErrMalformedClientID
	}

	return nil
}

// Validate ensures the packet is compliant.
func (pk *ConnectPacket) Validate() (byte, error) {
	if pk.ClientID == "" {
		return Failed, ErrMalformedClientID
	}

	if pk.ProtocolID != 0 && pk.ProtocolID != ProtocolID {
		return Failed, ErrMalformedProtocolID
	}

	return Accepted, nil
}
