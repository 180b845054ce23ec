// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

// Return codes carried by CONNACK, SUBACK, REGACK and PUBACK packets,
// plus client-local codes surfaced to request callbacks.
const (
	Accepted               byte = 0x00
	RejectedCongestion     byte = 0x01
	RejectedInvalidTopicID byte = 0x02
	RejectedNotSupported   byte = 0x03

	// Timeout is a client-local code passed to a request callback when no
	// acknowledgement arrived within the retransmission window. It never
	// appears on the wire.
	Timeout byte = 0xFE

	// Failed is a client-local catch-all code. It never appears on the wire.
	Failed byte = 0xFF
)

// CodeNames is a map that provides human-readable names for return codes.
var CodeNames = map[byte]string{
	Accepted:               "accepted",
	RejectedCongestion:     "rejected: congestion",
	RejectedInvalidTopicID: "rejected: invalid topic id",
	RejectedNotSupported:   "rejected: not supported",
	Timeout:                "timeout",
	Failed:                 "failed",
}
