package decoder

import (
	"net/netip"

	"firestige.xyz/snooper/internal/core"
)

const (
	ipv4HeaderMinLen = 20
	ipv6HeaderLen    = 40

	// IPv6 Hop-by-Hop Options next-header value. The true next protocol is
	// the first byte of the Hop-by-Hop payload.
	nextHeaderHopByHop = 0
)

// decodeIP decodes an IP header (IPv4 or IPv6) based on the version nibble.
// Returns the header and the remaining payload.
func decodeIP(data []byte) (core.IPHeader, []byte, error) {
	if len(data) < 1 {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	switch data[0] >> 4 {
	case 4:
		return decodeIPv4(data)
	case 6:
		return decodeIPv6(data)
	default:
		return core.IPHeader{}, nil, core.ErrUnsupportedProto
	}
}

// decodeIPv4 decodes an IPv4 header, consuming options when the IHL
// exceeds 20 bytes.
func decodeIPv4(data []byte) (core.IPHeader, []byte, error) {
	if len(data) < ipv4HeaderMinLen {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	// IHL is in 32-bit words
	ihl := int(data[0] & 0x0F)
	headerLen := ihl * 4
	if headerLen < ipv4HeaderMinLen || len(data) < headerLen {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	ip := core.IPHeader{
		Version:   4,
		HeaderLen: headerLen,
		TTL:       data[8],
		Protocol:  core.Protocol(data[9]),
	}

	addr, ok := netip.AddrFromSlice(data[12:16])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.SrcIP = addr

	addr, ok = netip.AddrFromSlice(data[16:20])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.DstIP = addr

	return ip, data[headerLen:], nil
}

// decodeIPv6 decodes the fixed 40-byte IPv6 header. At most one Hop-by-Hop
// indirection is followed; further extension headers are not unwrapped.
func decodeIPv6(data []byte) (core.IPHeader, []byte, error) {
	if len(data) < ipv6HeaderLen {
		return core.IPHeader{}, nil, core.ErrPacketTooShort
	}

	ip := core.IPHeader{
		Version:   6,
		HeaderLen: ipv6HeaderLen,
		Protocol:  core.Protocol(data[6]),
		TTL:       data[7], // hop limit
	}

	addr, ok := netip.AddrFromSlice(data[8:24])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.SrcIP = addr

	addr, ok = netip.AddrFromSlice(data[24:40])
	if !ok {
		return ip, nil, core.ErrPacketTooShort
	}
	ip.DstIP = addr

	payload := data[ipv6HeaderLen:]

	if uint8(ip.Protocol) == nextHeaderHopByHop {
		if len(payload) < 8 {
			return ip, nil, core.ErrPacketTooShort
		}
		ip.Protocol = core.Protocol(payload[0])
		// Hdr Ext Len is in 8-octet units, not counting the first 8 octets.
		extLen := (int(payload[1]) + 1) * 8
		if len(payload) < extLen {
			return ip, nil, core.ErrPacketTooShort
		}
		ip.HeaderLen += extLen
		payload = payload[extLen:]
	}

	return ip, payload, nil
}
