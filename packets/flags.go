// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package packets

// Bit positions within the MQTT-SN flags octet.
const (
	FlagDup          byte = 0x80
	FlagQoS          byte = 0x60
	FlagRetain       byte = 0x10
	FlagWill         byte = 0x08
	FlagCleanSession byte = 0x04
	FlagTopicIDType  byte = 0x03
)

// Flags holds the decoded values of an MQTT-SN flags octet.
type Flags struct {
	Dup          bool
	QoS          byte
	Retain       bool
	Will         bool
	CleanSession bool
	TopicIDType  byte
}

// encode packs the flag values into a single octet.
func (f Flags) encode() byte {
	return encodeBool(f.Dup)<<7 |
		f.QoS<<5 |
		encodeBool(f.Retain)<<4 |
		encodeBool(f.Will)<<3 |
		encodeBool(f.CleanSession)<<2 |
		f.TopicIDType&FlagTopicIDType
}

// decode unpacks a flags octet.
func (f *Flags) decode(b byte) {
	f.Dup = b&FlagDup > 0
	f.QoS = (b & FlagQoS) >> 5
	f.Retain = b&FlagRetain > 0
	f.Will = b&FlagWill > 0
	f.CleanSession = b&FlagCleanSession > 0
	f.TopicIDType = b & FlagTopicIDType
}
