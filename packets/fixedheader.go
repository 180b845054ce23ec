// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

import (
	"bytes"
	"encoding/binary"
)

// FixedHeader contains the length and type octets which begin every
// MQTT-SN packet. Length covers the whole frame, including itself.
type FixedHeader struct {

	// Length is the total number of octets in the frame.
	Length uint16

	// Type is the type of the packet (PUBLISH, SUBSCRIBE, etc).
	Type byte
}

// Encode writes the fixed header for a packet whose variable part is
// remaining octets long. Frames of 256 octets or more use the three-octet
// extended length form.
func (fh *FixedHeader) Encode(buf *bytes.Buffer, remaining int) {
	if remaining+2 < 256 {
		fh.Length = uint16(remaining + 2)
		buf.WriteByte(byte(fh.Length))
	} else {
		fh.Length = uint16(remaining + 4)
		buf.WriteByte(0x01)
		buf.Write(encodeUint16(fh.Length))
	}

	buf.WriteByte(fh.Type)
}

// Decode extracts the length and type octets from the front of a frame,
// returning the number of octets consumed.
func (fh *FixedHeader) Decode(buf []byte) (int, error) {
	if len(buf) < MinPacketSize {
		return 0, ErrMalformedLength
	}

	if buf[0] == 0x01 { // extended three-octet length
		if len(buf) < 4 {
			return 0, ErrMalformedLength
		}
		fh.Length = binary.BigEndian.Uint16(buf[1:3])
		fh.Type = buf[3]
		return 4, nil
	}

	fh.Length = uint16(buf[0])
	fh.Type = buf[1]
	return 2, nil
}
