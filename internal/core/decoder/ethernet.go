package decoder

import (
	"encoding/binary"

	"firestige.xyz/snooper/internal/core"
)

const (
	ethernetHeaderLen = 14

	// A type field numerically <= 0x05DC is an IEEE 802.3 length, not an
	// EtherType.
	ether8023MaxLen = 0x05DC

	etherTypeIPv4 = 0x0800
	etherTypeARP  = 0x0806
	etherTypeIPv6 = 0x86DD
)

// decodeEthernet decodes the 14-byte Ethernet header.
// Returns the header and the remaining payload.
func decodeEthernet(data []byte) (core.EthernetHeader, []byte, error) {
	if len(data) < ethernetHeaderLen {
		return core.EthernetHeader{}, nil, core.ErrPacketTooShort
	}

	eth := core.EthernetHeader{}
	copy(eth.DstMAC[:], data[0:6])
	copy(eth.SrcMAC[:], data[6:12])
	eth.EtherType = binary.BigEndian.Uint16(data[12:14])
	eth.Kind = classifyEtherType(eth.EtherType)

	return eth, data[ethernetHeaderLen:], nil
}

func classifyEtherType(etherType uint16) core.EtherKind {
	if etherType <= ether8023MaxLen {
		return core.Ether8023
	}
	switch etherType {
	case etherTypeIPv4:
		return core.EtherIPv4
	case etherTypeARP:
		return core.EtherARP
	case etherTypeIPv6:
		return core.EtherIPv6
	default:
		return core.EtherUnknown
	}
}
